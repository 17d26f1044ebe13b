// backend/src/handlers/insight_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/username/corpinsights/backend/src/logger"
	"github.com/username/corpinsights/backend/src/models"
	"github.com/username/corpinsights/backend/src/services"
)

type InsightHandler struct {
	analysisService services.AnalysisService
	sanitizer       *bluemonday.Policy
	tmpl            *template.Template
}

func NewInsightHandler(service services.AnalysisService) *InsightHandler {
	return &InsightHandler{
		analysisService: service,
		sanitizer:       bluemonday.StrictPolicy(),
		tmpl:            template.Must(template.New("insights").Parse(insightsTemplate)),
	}
}

// HandleGetInsights returns the three summary tables for a session as JSON.
func (h *InsightHandler) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.analysisService.GetResult(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			sendJSONError(w, "analysis session not found or expired", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Error retrieving analysis result", "sessionID", sessionID, "error", err)
		sendJSONError(w, "error retrieving analysis result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		ctxLogger.Error("Error generating JSON response for insights", "sessionID", sessionID, "error", err)
	}
}

// HandleViewInsights renders the summary tables as an HTML page. All display
// strings originate from the uploaded spreadsheet, so they pass through the
// sanitizer before the template.
func (h *InsightHandler) HandleViewInsights(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.analysisService.GetResult(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			sendJSONError(w, "analysis session not found or expired", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Error retrieving analysis result", "sessionID", sessionID, "error", err)
		sendJSONError(w, "error retrieving analysis result", http.StatusInternalServerError)
		return
	}

	view := insightsView{
		SessionID: h.sanitizer.Sanitize(result.SessionID),
		Filename:  h.sanitizer.Sanitize(result.Filename),
		Tables: []*models.SummaryTable{
			h.sanitizeTable(result.Geography),
			h.sanitizeTable(result.Month),
			h.sanitizeTable(result.DealType),
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, view); err != nil {
		ctxLogger.Error("Error rendering insights page", "sessionID", sessionID, "error", err)
	}
}

type insightsView struct {
	SessionID string
	Filename  string
	Tables    []*models.SummaryTable
}

// sanitizeTable returns a copy of the table with every display string run
// through the HTML sanitizer.
func (h *InsightHandler) sanitizeTable(table *models.SummaryTable) *models.SummaryTable {
	clean := &models.SummaryTable{
		KeyLabel: h.sanitizer.Sanitize(table.KeyLabel),
		Rows:     make([]models.SummaryRow, 0, len(table.Rows)),
	}
	for i, column := range table.Columns {
		clean.Columns[i] = h.sanitizer.Sanitize(column)
	}
	for _, row := range table.Rows {
		clean.Rows = append(clean.Rows, models.SummaryRow{
			Label:  h.sanitizer.Sanitize(row.Label),
			Count:  row.Count,
			Mean:   row.Mean,
			StdDev: row.StdDev,
			Min:    row.Min,
			Max:    row.Max,
		})
	}
	return clean
}

const insightsTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Insights - {{.Filename}}</title>
<style>
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>Insights for {{.Filename}}</h1>
{{range .Tables}}
<table>
<tr><th>{{.KeyLabel}}</th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}
<tr><td>{{.Label}}</td><td>{{.Count}}</td><td>{{.Mean}}</td><td>{{.StdDev}}</td><td>{{.Min}}</td><td>{{.Max}}</td></tr>
{{end}}
</table>
{{end}}
<p><a href="/api/download/{{.SessionID}}">Download normalized spreadsheet</a></p>
</body>
</html>
`
