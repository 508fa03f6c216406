package qa

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/fabfab/documind/store"
)

func analyzedDoc(filename string) store.Document {
	return store.Document{
		Filename: filename,
		RawText:  strings.Repeat("x", 10000),
		Analysis: store.Analysis{
			DocType:           "report",
			Summary:           "quarterly results",
			Sections:          []store.Section{{Title: "Revenue", Content: "up 4%"}},
			KeyPoints:         []string{"revenue grew", "costs flat"},
			QuestionsAnswered: []string{"How did revenue change?"},
			Conclusions:       []string{"solid quarter"},
			Relationships:     []string{"Acme acquired Beta Corp"},
			Timeline:          []store.TimelineEvent{{Date: "Q1", Event: "acquisition closed"}},
		},
	}
}

func TestBuildContextSingleDocumentExcerpt(t *testing.T) {
	doc := analyzedDoc("report.pdf")

	ctx := buildContext([]store.Document{doc}, true)

	assert.Contains(t, ctx, "Document: report.pdf")
	assert.Contains(t, ctx, "Type: report")
	assert.Contains(t, ctx, "Summary: quarterly results")
	assert.Contains(t, ctx, "Sections:\n- Revenue: up 4%")
	assert.Contains(t, ctx, "Key Points: revenue grew; costs flat")
	assert.Contains(t, ctx, "Questions this document answers: How did revenue change?")
	assert.Contains(t, ctx, "Conclusions: solid quarter")
	assert.Contains(t, ctx, "Relationships: Acme acquired Beta Corp")
	assert.Contains(t, ctx, "Timeline:\n- Q1: acquisition closed")
	assert.Contains(t, ctx, "Content excerpt:\n"+strings.Repeat("x", 8000))
	assert.NotContains(t, ctx, strings.Repeat("x", 8001))
}

func TestBuildContextMultiDocumentExcerpt(t *testing.T) {
	docs := []store.Document{analyzedDoc("a.pdf"), analyzedDoc("b.pdf")}

	ctx := buildContext(docs, false)

	assert.Contains(t, ctx, "Document: a.pdf")
	assert.Contains(t, ctx, "Document: b.pdf")
	assert.Contains(t, ctx, documentSeparator)
	assert.Contains(t, ctx, strings.Repeat("x", 2000))
	assert.NotContains(t, ctx, strings.Repeat("x", 2001))
}

func TestBuildContextExcerptKeepsRuneBoundaries(t *testing.T) {
	doc := store.Document{
		Filename: "cjk.txt",
		RawText:  strings.Repeat("世", singleDocExcerptLimit+100),
	}

	ctx := buildContext([]store.Document{doc}, true)

	assert.True(t, utf8.ValidString(ctx))
	assert.Contains(t, ctx, "Content excerpt:\n"+strings.Repeat("世", singleDocExcerptLimit))
	assert.NotContains(t, ctx, strings.Repeat("世", singleDocExcerptLimit+1))
}

func TestBuildContextOmitsEmptyFields(t *testing.T) {
	doc := store.Document{Filename: "bare.txt", RawText: "hello"}

	ctx := buildContext([]store.Document{doc}, true)

	assert.Equal(t, "Document: bare.txt\nContent excerpt:\nhello", ctx)
	assert.NotContains(t, ctx, "Sections:")
	assert.NotContains(t, ctx, "Timeline:")
	assert.NotContains(t, ctx, "Key Points:")
}
