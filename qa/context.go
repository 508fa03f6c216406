package qa

import (
	"fmt"
	"strings"

	"github.com/fabfab/documind/store"
	"github.com/fabfab/documind/textutil"
)

const (
	singleDocExcerptLimit = 8000
	multiDocExcerptLimit  = 2000
	documentSeparator     = "\n\n---\n\n"
)

// buildContext renders the retrieved documents into the textual context fed
// to the model. Single-document mode carries a deeper raw-text excerpt since
// the whole prompt budget belongs to one source; multi-document mode spreads
// it across up to five.
func buildContext(docs []store.Document, singleDoc bool) string {
	excerptLimit := multiDocExcerptLimit
	if singleDoc {
		excerptLimit = singleDocExcerptLimit
	}

	blocks := make([]string, 0, len(docs))
	for i := range docs {
		blocks = append(blocks, renderDocument(&docs[i], excerptLimit))
	}
	return strings.Join(blocks, documentSeparator)
}

func renderDocument(doc *store.Document, excerptLimit int) string {
	a := &doc.Analysis

	parts := []string{"Document: " + doc.Filename}
	if a.DocType != "" {
		parts = append(parts, "Type: "+a.DocType)
	}
	if a.Summary != "" {
		parts = append(parts, "Summary: "+a.Summary)
	}
	if len(a.Sections) > 0 {
		lines := make([]string, 0, len(a.Sections))
		for _, section := range a.Sections {
			lines = append(lines, fmt.Sprintf("- %s: %s", section.Title, section.Content))
		}
		parts = append(parts, "Sections:\n"+strings.Join(lines, "\n"))
	}
	if len(a.KeyPoints) > 0 {
		parts = append(parts, "Key Points: "+strings.Join(a.KeyPoints, "; "))
	}
	if len(a.QuestionsAnswered) > 0 {
		parts = append(parts, "Questions this document answers: "+strings.Join(a.QuestionsAnswered, "; "))
	}
	if len(a.Conclusions) > 0 {
		parts = append(parts, "Conclusions: "+strings.Join(a.Conclusions, "; "))
	}
	if len(a.Relationships) > 0 {
		parts = append(parts, "Relationships: "+strings.Join(a.Relationships, "; "))
	}
	if len(a.Timeline) > 0 {
		lines := make([]string, 0, len(a.Timeline))
		for _, event := range a.Timeline {
			lines = append(lines, fmt.Sprintf("- %s: %s", event.Date, event.Event))
		}
		parts = append(parts, "Timeline:\n"+strings.Join(lines, "\n"))
	}

	excerpt := textutil.Truncate(doc.RawText, excerptLimit)
	if excerpt != "" {
		parts = append(parts, "Content excerpt:\n"+excerpt)
	}

	return strings.Join(parts, "\n")
}
