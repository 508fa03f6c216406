package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const documentColumns = `
	id, user_id, filename, file_type, file_size, status,
	doc_type, summary, sections, key_points, questions_answered,
	conclusions, entities, relationships, timeline,
	raw_text, error_message, created_at
`

// Postgres implements document persistence and ranked full-text lookup on
// top of a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

func (s *Postgres) Insert(ctx context.Context, doc *Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, user_id, filename, file_type, file_size, status, raw_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, doc.ID, doc.UserID, doc.Filename, doc.FileType, doc.FileSize, doc.Status, doc.RawText)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateStatus(ctx context.Context, docID uuid.UUID, status string) error {
	if _, err := s.pool.Exec(ctx, "UPDATE documents SET status = $2 WHERE id = $1", docID, status); err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

func (s *Postgres) MarkFailed(ctx context.Context, docID uuid.UUID, message string) error {
	if _, err := s.pool.Exec(ctx,
		"UPDATE documents SET status = $2, error_message = $3 WHERE id = $1",
		docID, StatusFailed, message,
	); err != nil {
		return fmt.Errorf("mark document failed: %w", err)
	}
	return nil
}

// SaveAnalysis stores the analyzer output and flips the document to
// completed.
func (s *Postgres) SaveAnalysis(ctx context.Context, docID uuid.UUID, result *Analysis) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2,
		    doc_type = $3,
		    summary = $4,
		    sections = $5,
		    key_points = $6,
		    questions_answered = $7,
		    conclusions = $8,
		    entities = $9,
		    relationships = $10,
		    timeline = $11,
		    error_message = NULL
		WHERE id = $1
	`, docID, StatusCompleted, result.DocType, result.Summary, result.Sections,
		result.KeyPoints, result.QuestionsAnswered, result.Conclusions,
		result.Entities, result.Relationships, result.Timeline)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// RefreshSearchIndex rebuilds the document's tsvector from its analyzed
// fields. A failure here is logged and swallowed so it never fails the
// processing run that triggered it; the document stays reachable through the
// recency fallback.
func (s *Postgres) RefreshSearchIndex(ctx context.Context, doc *Document) {
	text := BuildSearchText(doc)
	_, err := s.pool.Exec(ctx,
		"UPDATE documents SET searchable_content = to_tsvector('english', $2) WHERE id = $1",
		doc.ID, text,
	)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("document_id", doc.ID).Msg("search index update failed")
	}
}

// FindCompleted returns the document when it exists, belongs to the user, and
// has completed processing; otherwise nil.
func (s *Postgres) FindCompleted(ctx context.Context, userID, docID uuid.UUID) (*Document, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1 AND user_id = $2 AND status = $3
	`, docID, userID, StatusCompleted)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find completed document: %w", err)
	}
	return doc, nil
}

// SearchCompleted ranks the user's completed documents by full-text relevance
// to the query. Zero matches yields an empty slice, not an error.
func (s *Postgres) SearchCompleted(ctx context.Context, userID uuid.UUID, query string, limit int) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1
		  AND status = $2
		  AND searchable_content @@ plainto_tsquery('english', $3)
		ORDER BY ts_rank(searchable_content, plainto_tsquery('english', $3)) DESC
		LIMIT $4
	`, userID, StatusCompleted, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// RecentCompleted returns the user's newest completed documents.
func (s *Postgres) RecentCompleted(ctx context.Context, userID uuid.UUID, limit int) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, StatusCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (s *Postgres) ListByUser(ctx context.Context, userID uuid.UUID) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (s *Postgres) Find(ctx context.Context, userID, docID uuid.UUID) (*Document, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1 AND user_id = $2
	`, docID, userID)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *Postgres) Delete(ctx context.Context, userID, docID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var (
		doc          Document
		docType      *string
		summary      *string
		rawText      *string
		errorMessage *string
	)
	err := row.Scan(
		&doc.ID, &doc.UserID, &doc.Filename, &doc.FileType, &doc.FileSize, &doc.Status,
		&docType, &summary, &doc.Analysis.Sections, &doc.Analysis.KeyPoints,
		&doc.Analysis.QuestionsAnswered, &doc.Analysis.Conclusions, &doc.Analysis.Entities,
		&doc.Analysis.Relationships, &doc.Analysis.Timeline,
		&rawText, &errorMessage, &doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if docType != nil {
		doc.Analysis.DocType = *docType
	}
	if summary != nil {
		doc.Analysis.Summary = *summary
	}
	if rawText != nil {
		doc.RawText = *rawText
	}
	if errorMessage != nil {
		doc.ErrorMessage = *errorMessage
	}
	return &doc, nil
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return docs, nil
}
