// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"

	"github.com/username/corpinsights/backend/src/models"
)

// AnalysisResult carries everything derived from one uploaded spreadsheet:
// the three summary tables plus the location of the normalized artifact. It
// is held per session rather than in process-wide state, so concurrent
// uploads cannot clobber each other's results.
type AnalysisResult struct {
	SessionID    string               `json:"sessionID"`
	Filename     string               `json:"filename"`
	RecordCount  int                  `json:"recordCount"`
	Geography    *models.SummaryTable `json:"geography"`
	Month        *models.SummaryTable `json:"month"`
	DealType     *models.SummaryTable `json:"dealType"`
	ArtifactPath string               `json:"-"`
}

// Define common service errors
var (
	ErrResultNotFound = errors.New("analysis session not found or expired")
)

// AnalysisService defines the upload -> normalize -> aggregate pipeline.
type AnalysisService interface {
	ProcessUpload(fileReader io.Reader, filename string, filesize int64) (*AnalysisResult, error)
	GetResult(sessionID string) (*AnalysisResult, error)
	GetArtifactPath(sessionID string) (string, error)
}
