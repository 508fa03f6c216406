package analysis

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabfab/documind/provider"
)

type stubLLM struct {
	response string
	err      error
	lastMsgs []provider.Message
}

func (s *stubLLM) Complete(_ context.Context, messages []provider.Message) (string, error) {
	s.lastMsgs = messages
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzeParsesFencedJSON(t *testing.T) {
	llm := &stubLLM{response: "```json\n" + `{
		"doc_type": "receipt",
		"summary": "a grocery receipt",
		"sections": [{"title": "Items", "content": "milk and bread"}],
		"key_points": ["total was $14"],
		"questions_answered": ["How much was spent?"],
		"conclusions": [],
		"entities": {"people": [], "organizations": ["SuperMart"], "dates": ["2024-01-04"], "amounts": ["$14"], "locations": []},
		"relationships": [],
		"timeline": []
	}` + "\n```"}

	result, err := NewAnalyzer(llm).Analyze(context.Background(), "raw receipt text")
	require.NoError(t, err)

	assert.Equal(t, "receipt", result.DocType)
	assert.Equal(t, "a grocery receipt", result.Summary)
	require.Len(t, result.Sections, 1)
	assert.Equal(t, "Items", result.Sections[0].Title)
	assert.Equal(t, []string{"SuperMart"}, result.Entities.Organizations)
}

func TestAnalyzeDefaultsDocType(t *testing.T) {
	llm := &stubLLM{response: `{"summary": "something"}`}

	result, err := NewAnalyzer(llm).Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "other", result.DocType)
}

func TestAnalyzeTruncatesInput(t *testing.T) {
	llm := &stubLLM{response: `{"doc_type":"notes","summary":"s"}`}

	_, err := NewAnalyzer(llm).Analyze(context.Background(), strings.Repeat("a", 20000))
	require.NoError(t, err)

	userMsg := llm.lastMsgs[len(llm.lastMsgs)-1].Content
	assert.LessOrEqual(t, len(userMsg), inputCharLimit+len("Analyze this document:\n\n"))
}

func TestAnalyzeTruncatesInputOnRuneBoundary(t *testing.T) {
	llm := &stubLLM{response: `{"doc_type":"notes","summary":"s"}`}

	_, err := NewAnalyzer(llm).Analyze(context.Background(), strings.Repeat("é", inputCharLimit+50))
	require.NoError(t, err)

	userMsg := llm.lastMsgs[len(llm.lastMsgs)-1].Content
	assert.True(t, utf8.ValidString(userMsg))
	assert.Equal(t, inputCharLimit+utf8.RuneCountInString("Analyze this document:\n\n"),
		utf8.RuneCountInString(userMsg))
}

func TestAnalyzeMalformedResponseFails(t *testing.T) {
	llm := &stubLLM{response: "I refuse to emit JSON"}

	_, err := NewAnalyzer(llm).Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse analysis response")
}

func TestAnalyzeProviderFailurePropagates(t *testing.T) {
	llm := &stubLLM{err: &provider.Error{Reason: provider.ReasonTimeout, Message: "slow"}}

	_, err := NewAnalyzer(llm).Analyze(context.Background(), "text")
	require.Error(t, err)

	var provErr *provider.Error
	assert.ErrorAs(t, err, &provErr)
}
