// Package analysis performs one-shot structured extraction from raw document
// text: a single chat completion with a fixed JSON-schema instruction, no
// retrieval or conversation state.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fabfab/documind/provider"
	"github.com/fabfab/documind/store"
	"github.com/fabfab/documind/textutil"
)

// inputCharLimit caps how much raw text is submitted for analysis.
const inputCharLimit = 15000

type Analyzer struct {
	llm provider.Client
}

func NewAnalyzer(llm provider.Client) *Analyzer {
	return &Analyzer{llm: llm}
}

// Analyze derives the structured document fields from raw text. Unlike the
// answer path, a malformed model response here is an error: partial analysis
// results would poison the search index and every later answer.
func (a *Analyzer) Analyze(ctx context.Context, rawText string) (*store.Analysis, error) {
	rawText = textutil.Truncate(rawText, inputCharLimit)

	completion, err := a.llm.Complete(ctx, []provider.Message{
		{Role: provider.RoleSystem, Content: analyzerSystemPrompt},
		{Role: provider.RoleUser, Content: "Analyze this document:\n\n" + rawText},
	})
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	result, err := parseAnalysis(completion)
	if err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	return result, nil
}

// parseAnalysis decodes the model's JSON, tolerating markdown code fencing
// around it.
func parseAnalysis(completion string) (*store.Analysis, error) {
	cleaned := strings.ReplaceAll(completion, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var result store.Analysis
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, err
	}

	if result.DocType == "" {
		result.DocType = "other"
	}
	return &result, nil
}

const analyzerSystemPrompt = `You are a document analyzer. Analyze the provided document and return a JSON response with:

doc_type: One of: receipt, report, article, assignment, email, contract, notes, other

summary: A comprehensive summary of the document covering the main topic, purpose, and key findings. Be thorough.

sections: Array of main topics/sections found in the document. Each section should have:
  - title: Section or topic name
  - content: Summary of what this section covers

key_points: Array of bullet points capturing all important ideas (as many as needed)

questions_answered: Array of questions that this document can answer. Think about what someone might ask about this document's content.

conclusions: Array of conclusions, recommendations, or key takeaways from the document

entities: Object with arrays for:
  - people: Names of people mentioned
  - organizations: Company/org names
  - dates: Important dates mentioned
  - amounts: Money amounts, quantities
  - locations: Places mentioned

relationships: Array of relationships between entities (if applicable). Each should describe how two entities are connected. Example: "John Smith is the CEO of Acme Corp"

timeline: Array of events in chronological order (if applicable). Each should have:
  - date: When it happened (or relative timing like "first", "then", "finally")
  - event: What happened

Respond ONLY with valid JSON, no markdown code blocks or other text.`
