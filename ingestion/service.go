// Package ingestion runs uploaded files through the processing pipeline:
// text extraction, structured analysis, and search-index refresh.
package ingestion

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fabfab/documind/analysis"
	"github.com/fabfab/documind/extract"
	"github.com/fabfab/documind/store"
)

// processTimeout bounds one document's analysis run, dominated by the
// provider round-trip.
const processTimeout = 5 * time.Minute

// Store is the slice of document persistence the pipeline drives.
type Store interface {
	Insert(ctx context.Context, doc *store.Document) error
	UpdateStatus(ctx context.Context, docID uuid.UUID, status string) error
	MarkFailed(ctx context.Context, docID uuid.UUID, message string) error
	SaveAnalysis(ctx context.Context, docID uuid.UUID, result *store.Analysis) error
	RefreshSearchIndex(ctx context.Context, doc *store.Document)
}

type Service struct {
	store    Store
	analyzer *analysis.Analyzer
	logger   zerolog.Logger
}

func NewService(st Store, analyzer *analysis.Analyzer, logger zerolog.Logger) *Service {
	return &Service{store: st, analyzer: analyzer, logger: logger}
}

// Upload extracts text from the payload and records the document. Extraction
// failure still produces a document row, marked failed with the reason, so
// the user sees what happened to their file.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*store.Document, error) {
	doc := &store.Document{
		ID:       uuid.New(),
		UserID:   userID,
		Filename: filename,
		FileType: fileType(filename, contentType),
		FileSize: int64(len(data)),
		Status:   store.StatusPending,
	}

	text, extractErr := extract.Text(filename, contentType, data)
	doc.RawText = text

	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}

	if extractErr != nil {
		doc.Status = store.StatusFailed
		doc.ErrorMessage = extractErr.Error()
		if err := s.store.MarkFailed(ctx, doc.ID, doc.ErrorMessage); err != nil {
			return nil, err
		}
		s.logger.Warn().Err(extractErr).Str("filename", filename).Msg("text extraction failed")
		return doc, nil
	}

	return doc, nil
}

// Process analyzes a pending document and completes it, or marks it failed.
func (s *Service) Process(ctx context.Context, doc *store.Document) error {
	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	if err := s.store.UpdateStatus(ctx, doc.ID, store.StatusProcessing); err != nil {
		return err
	}

	result, err := s.analyzer.Analyze(ctx, doc.RawText)
	if err != nil {
		s.logger.Error().Err(err).Stringer("document_id", doc.ID).Msg("document analysis failed")
		if markErr := s.store.MarkFailed(ctx, doc.ID, err.Error()); markErr != nil {
			return markErr
		}
		return fmt.Errorf("process document: %w", err)
	}

	if err := s.store.SaveAnalysis(ctx, doc.ID, result); err != nil {
		return err
	}

	doc.Analysis = *result
	doc.Status = store.StatusCompleted
	s.store.RefreshSearchIndex(ctx, doc)

	s.logger.Info().
		Stringer("document_id", doc.ID).
		Str("filename", doc.Filename).
		Str("doc_type", result.DocType).
		Msg("document processed")
	return nil
}

func fileType(filename, contentType string) string {
	if contentType == "application/pdf" || strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		return "pdf"
	}
	return "txt"
}
