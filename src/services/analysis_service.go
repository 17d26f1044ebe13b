// backend/src/services/analysis_service.go
package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/corpinsights/backend/src/database"
	"github.com/username/corpinsights/backend/src/logger"
	"github.com/username/corpinsights/backend/src/models"
	"github.com/username/corpinsights/backend/src/parsers/spreadsheet"
	"github.com/username/corpinsights/backend/src/processors"
)

const (
	ckAnalysisResult       = "analysis_result_%s"
	artifactFilename       = "result.xlsx"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// Display headings for the three insight tables. The five statistic headings
// are shared; each dimension contributes its own group-key heading.
var (
	statHeadings = []string{
		"Transaction Count",
		"Transaction Value Mean",
		"Transaction Value STD",
		"Transaction Value Min",
		"Transaction Value Max",
	}
	geographyHeadings = append([]string{"Geographical Region"}, statHeadings...)
	monthHeadings     = append([]string{"Month"}, statHeadings...)
	dealTypeHeadings  = append([]string{"Deal Type"}, statHeadings...)
)

type analysisServiceImpl struct {
	parser      *spreadsheet.Parser
	normalizer  *processors.Normalizer
	aggregator  *processors.Aggregator
	uploadDir   string
	resultCache *cache.Cache
	cacheTTL    time.Duration
}

func NewAnalysisService(
	parser *spreadsheet.Parser,
	normalizer *processors.Normalizer,
	aggregator *processors.Aggregator,
	uploadDir string,
	resultCache *cache.Cache,
	cacheTTL time.Duration,
) AnalysisService {
	return &analysisServiceImpl{
		parser:      parser,
		normalizer:  normalizer,
		aggregator:  aggregator,
		uploadDir:   uploadDir,
		resultCache: resultCache,
		cacheTTL:    cacheTTL,
	}
}

// ProcessUpload runs the full pipeline for one uploaded workbook: parse,
// normalize, persist the normalized artifact and records, then aggregate by
// geography, month and deal attribute. Each upload gets its own session id;
// the result is cached under that id for later insight and download requests.
func (s *analysisServiceImpl) ProcessUpload(fileReader io.Reader, filename string, filesize int64) (*AnalysisResult, error) {
	overallStartTime := time.Now()
	sessionID := uuid.New().String()
	logger.L.Info("ProcessUpload START", "sessionID", sessionID, "filename", filename, "filesize", filesize)

	rawRecords, err := s.parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	normalized, err := s.normalizer.Normalize(rawRecords)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", filename, err)
	}
	logger.L.Info("Normalization complete", "sessionID", sessionID, "rawRows", len(rawRecords), "normalizedRows", len(normalized))

	// Persist step, kept outside the pure transform: the artifact workbook
	// plus the normalized rows and an upload-history entry in sqlite.
	artifactDir := filepath.Join(s.uploadDir, sessionID)
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	artifactPath := filepath.Join(artifactDir, artifactFilename)
	if err := spreadsheet.WriteNormalized(normalized, artifactPath); err != nil {
		return nil, fmt.Errorf("writing normalized artifact: %w", err)
	}

	if err := s.persistRecords(sessionID, filename, filesize, artifactPath, normalized); err != nil {
		return nil, err
	}

	geography, err := s.aggregator.Aggregate(normalized, models.GroupByGeography, geographyHeadings)
	if err != nil {
		return nil, fmt.Errorf("aggregating by geography: %w", err)
	}
	month, err := s.aggregator.Aggregate(normalized, models.GroupByMonth, monthHeadings)
	if err != nil {
		return nil, fmt.Errorf("aggregating by month: %w", err)
	}
	dealType, err := s.aggregator.Aggregate(normalized, models.GroupByDealAttribute, dealTypeHeadings)
	if err != nil {
		return nil, fmt.Errorf("aggregating by deal attribute: %w", err)
	}

	result := &AnalysisResult{
		SessionID:    sessionID,
		Filename:     filename,
		RecordCount:  len(normalized),
		Geography:    geography,
		Month:        month,
		DealType:     dealType,
		ArtifactPath: artifactPath,
	}
	s.resultCache.Set(fmt.Sprintf(ckAnalysisResult, sessionID), result, s.cacheTTL)

	logger.L.Info("ProcessUpload END", "sessionID", sessionID, "records", len(normalized), "durationMs", time.Since(overallStartTime).Milliseconds())
	return result, nil
}

// persistRecords stores the normalized rows and the upload-history entry in a
// single database transaction.
func (s *analysisServiceImpl) persistRecords(sessionID, filename string, filesize int64, artifactPath string, records []models.NormalizedRecord) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO normalized_records
		(session_id, corp_action_id, declared_date, info_source, deal_attributes,
		transaction_amount, transaction_currency, geographical_region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(
			sessionID, rec.CorpActionID, rec.DeclaredDate, rec.InfoSource, rec.DealAttributes,
			rec.TransactionAmount, rec.TransactionCurrency, rec.GeographicalRegion,
		)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate record on persist", "sessionID", sessionID, "corpActionID", rec.CorpActionID)
				continue
			}
			return fmt.Errorf("error inserting normalized record (id %s): %w", rec.CorpActionID, err)
		}
	}

	_, err = dbTx.Exec(`
		INSERT INTO uploads_history (session_id, filename, file_size, record_count, artifact_path)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, filename, filesize, len(records), artifactPath,
	)
	if err != nil {
		return fmt.Errorf("failed to record upload in history: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing normalized records: %w", err)
	}
	return nil
}

func (s *analysisServiceImpl) GetResult(sessionID string) (*AnalysisResult, error) {
	if cached, found := s.resultCache.Get(fmt.Sprintf(ckAnalysisResult, sessionID)); found {
		return cached.(*AnalysisResult), nil
	}
	return nil, ErrResultNotFound
}

// GetArtifactPath resolves the normalized artifact for a session. It falls
// back to the upload history so downloads keep working after the cached
// result expires.
func (s *analysisServiceImpl) GetArtifactPath(sessionID string) (string, error) {
	if result, err := s.GetResult(sessionID); err == nil {
		return result.ArtifactPath, nil
	}

	var path string
	err := database.DB.QueryRow(`SELECT artifact_path FROM uploads_history WHERE session_id = ?`, sessionID).Scan(&path)
	if err != nil {
		return "", ErrResultNotFound
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return "", ErrResultNotFound
	}
	return path, nil
}
