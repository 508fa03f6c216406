// Package qa implements the retrieval-augmented question answering core:
// full-text retrieval, context assembly, conversation history handling, and
// LLM answer generation with source attribution.
package qa

import "github.com/google/uuid"

// Scope selects the documents eligible for retrieval on a request. It is a
// closed set: a single explicit document, or everything the user owns.
type Scope interface {
	isScope()
}

// SingleDocument restricts retrieval to one document. The question is not
// used for ranking in this mode.
type SingleDocument struct {
	DocumentID uuid.UUID
}

// AllDocuments searches the user's whole completed corpus, ranked by
// relevance to the question. Limit falls back to the default when zero.
type AllDocuments struct {
	Limit int
}

func (SingleDocument) isScope() {}
func (AllDocuments) isScope()   {}
