// backend/src/handlers/download_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/corpinsights/backend/src/logger"
	"github.com/username/corpinsights/backend/src/services"
)

type DownloadHandler struct {
	analysisService services.AnalysisService
}

func NewDownloadHandler(service services.AnalysisService) *DownloadHandler {
	return &DownloadHandler{
		analysisService: service,
	}
}

// HandleDownload streams the normalized spreadsheet artifact for a session.
func (h *DownloadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	path, err := h.analysisService.GetArtifactPath(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			sendJSONError(w, "no normalized spreadsheet available for this session", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Error resolving artifact path", "sessionID", sessionID, "error", err)
		sendJSONError(w, "error retrieving normalized spreadsheet", http.StatusInternalServerError)
		return
	}

	ctxLogger.Info("Serving normalized artifact", "sessionID", sessionID, "path", path)
	w.Header().Set("Content-Disposition", `attachment; filename="result.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
