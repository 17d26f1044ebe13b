// backend/src/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/corpinsights/backend/src/config"
	"github.com/username/corpinsights/backend/src/logger"
	"github.com/username/corpinsights/backend/src/processors"
	"github.com/username/corpinsights/backend/src/security/validation"
	"github.com/username/corpinsights/backend/src/services"
)

type UploadHandler struct {
	analysisService services.AnalysisService
}

func NewUploadHandler(service services.AnalysisService) *UploadHandler {
	return &UploadHandler{
		analysisService: service,
	}
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		sendJSONError(w, fmt.Sprintf("failed to read upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		sendJSONError(w, "failed to retrieve file from request, ensure the 'file' field is used", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		sendJSONError(w, fmt.Sprintf("file too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateWorkbookSignature(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctxLogger.Info("Processing upload request", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	result, err := h.analysisService.ProcessUpload(file, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		status := http.StatusInternalServerError
		if isPipelineError(err) {
			status = http.StatusBadRequest
		}
		ctxLogger.Error("Upload processing failed", "filename", fileHeader.Filename, "error", err)
		sendJSONError(w, fmt.Sprintf("the uploaded spreadsheet could not be processed: %v", err), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		ctxLogger.Error("Error encoding JSON response for upload result", "sessionID", result.SessionID, "error", err)
	}
}

// isPipelineError reports whether err is one of the typed cleaning or
// aggregation errors, which indicate a problem with the uploaded data rather
// than with the server.
func isPipelineError(err error) bool {
	var malformedInput *processors.MalformedInputError
	var unknownCurrency *processors.UnknownCurrencyError
	var dateFormat *processors.DateFormatError
	var invalidGroupKey *processors.InvalidGroupKeyError
	var attributeParse *processors.AttributeParseError
	return errors.As(err, &malformedInput) ||
		errors.As(err, &unknownCurrency) ||
		errors.As(err, &dateFormat) ||
		errors.As(err, &invalidGroupKey) ||
		errors.As(err, &attributeParse)
}
