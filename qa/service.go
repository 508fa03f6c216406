package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fabfab/documind/provider"
	"github.com/fabfab/documind/store"
)

// Canned answers for the two empty-retrieval conditions. These are successful
// responses, not errors.
const (
	notFoundAnswer    = "This document was not found or is still being processed."
	noDocumentsAnswer = "I don't have any documents to search. Please upload some documents first, then I can answer questions about them."
)

// Request carries everything one answer call needs. The core is stateless:
// history and summary always travel in the request.
type Request struct {
	UserID   uuid.UUID
	Question string
	Scope    Scope
	Turns    []Turn
	Summary  string
}

// Source is a cited document, ordered by the model's own usage ranking with
// uncited retrieved documents appended in retrieval order.
type Source struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
}

type Response struct {
	Answer       string   `json:"answer"`
	Sources      []Source `json:"sources"`
	NeedsSummary bool     `json:"needs_summary,omitempty"`
	Summary      string   `json:"summary,omitempty"`
}

// Service orchestrates retrieval, context assembly, generation, and
// conversation summarization.
type Service struct {
	retriever *Retriever
	llm       provider.Client
	logger    zerolog.Logger
}

func NewService(st Store, llm provider.Client, logger zerolog.Logger) *Service {
	return &Service{
		retriever: NewRetriever(st),
		llm:       llm,
		logger:    logger,
	}
}

// Answer runs the full question-answering sequence. Provider failures during
// generation abort the request; a summarization failure degrades to returning
// the answer without a summary.
func (s *Service) Answer(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, fmt.Errorf("question cannot be empty")
	}

	scope := req.Scope
	if scope == nil {
		scope = AllDocuments{}
	}
	_, singleDoc := scope.(SingleDocument)

	docs, err := s.retriever.Retrieve(ctx, req.UserID, question, scope)
	if err != nil {
		return Response{}, fmt.Errorf("retrieve documents: %w", err)
	}
	if len(docs) == 0 {
		if singleDoc {
			return Response{Answer: notFoundAnswer, Sources: []Source{}}, nil
		}
		return Response{Answer: noDocumentsAnswer, Sources: []Source{}}, nil
	}

	docContext := buildContext(docs, singleDoc)

	messages := []provider.Message{
		{Role: provider.RoleSystem, Content: answerSystemPrompt(docs)},
	}
	if history := renderHistory(req.Summary, req.Turns); history != "" {
		messages = append(messages,
			provider.Message{Role: provider.RoleUser, Content: "Conversation history for context:\n\n" + history},
			provider.Message{Role: provider.RoleAssistant, Content: "I understand the conversation history. I'll use this context to answer your next question."},
		)
	}
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: answerUserPrompt(docContext, question)})

	completion, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return Response{}, fmt.Errorf("failed to get answer: %w", err)
	}

	parsed := parseCompletion(completion)

	resp := Response{
		Answer:  parsed.Answer,
		Sources: rankSources(docs, parsed.PrimarySources),
	}

	if needsSummarization(len(req.Turns)) {
		summary, sumErr := s.summarize(ctx, req, question, parsed.Answer)
		if sumErr != nil {
			// The answer itself succeeded; dropping the summary beats
			// failing the whole request over a housekeeping call.
			s.logger.Warn().Err(sumErr).Msg("conversation summarization failed, returning answer without summary")
		} else {
			resp.NeedsSummary = true
			resp.Summary = summary
		}
	}

	return resp, nil
}

// rankSources orders the retrieved documents by the model's claimed usage.
// Filenames the model cited come first in its order; everything it did not
// cite follows in retrieval order. Unknown filenames and duplicates are
// ignored.
func rankSources(docs []store.Document, primarySources []string) []Source {
	sources := make([]Source, 0, len(docs))

	if len(primarySources) == 0 {
		for i := range docs {
			sources = append(sources, Source{ID: docs[i].ID, Filename: docs[i].Filename})
		}
		return sources
	}

	byFilename := make(map[string]*store.Document, len(docs))
	for i := range docs {
		byFilename[docs[i].Filename] = &docs[i]
	}

	used := make(map[uuid.UUID]struct{}, len(docs))
	for _, filename := range primarySources {
		doc, ok := byFilename[filename]
		if !ok {
			continue
		}
		if _, dup := used[doc.ID]; dup {
			continue
		}
		used[doc.ID] = struct{}{}
		sources = append(sources, Source{ID: doc.ID, Filename: doc.Filename})
	}

	for i := range docs {
		if _, ok := used[docs[i].ID]; ok {
			continue
		}
		sources = append(sources, Source{ID: docs[i].ID, Filename: docs[i].Filename})
	}

	return sources
}

// summarize compacts the full turn history plus the exchange just produced
// into a fresh summary via a second provider call.
func (s *Service) summarize(ctx context.Context, req Request, question, answer string) (string, error) {
	conversation := renderTurns(req.Turns)
	conversation += "\nUser: " + question + "\nAssistant: " + answer

	messages := []provider.Message{
		{Role: provider.RoleSystem, Content: summarySystemPrompt},
		{Role: provider.RoleUser, Content: summaryUserPrompt(req.Summary, conversation)},
	}

	summary, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("summarize conversation: %w", err)
	}
	return strings.TrimSpace(summary), nil
}
