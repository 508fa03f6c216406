package qa

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fabfab/documind/store"
)

const defaultRetrievalLimit = 5

// Store is the slice of the document store the retriever depends on.
type Store interface {
	FindCompleted(ctx context.Context, userID, docID uuid.UUID) (*store.Document, error)
	SearchCompleted(ctx context.Context, userID uuid.UUID, query string, limit int) ([]store.Document, error)
	RecentCompleted(ctx context.Context, userID uuid.UUID, limit int) ([]store.Document, error)
}

// Retriever resolves a scope and question to an ordered candidate set.
type Retriever struct {
	store Store
}

func NewRetriever(st Store) *Retriever {
	return &Retriever{store: st}
}

// Retrieve returns the documents to answer from, most relevant first. In
// multi-document mode a relevance search that matches nothing falls back to
// the most recently created completed documents, so a non-empty corpus always
// yields candidates.
func (r *Retriever) Retrieve(ctx context.Context, userID uuid.UUID, question string, scope Scope) ([]store.Document, error) {
	switch sc := scope.(type) {
	case SingleDocument:
		doc, err := r.store.FindCompleted(ctx, userID, sc.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("find document: %w", err)
		}
		if doc == nil {
			return nil, nil
		}
		return []store.Document{*doc}, nil

	case AllDocuments:
		limit := sc.Limit
		if limit <= 0 {
			limit = defaultRetrievalLimit
		}
		docs, err := r.store.SearchCompleted(ctx, userID, question, limit)
		if err != nil {
			return nil, fmt.Errorf("search documents: %w", err)
		}
		if len(docs) > 0 {
			return docs, nil
		}
		docs, err = r.store.RecentCompleted(ctx, userID, limit)
		if err != nil {
			return nil, fmt.Errorf("list recent documents: %w", err)
		}
		return docs, nil

	default:
		return nil, fmt.Errorf("unsupported retrieval scope %T", scope)
	}
}
