package store

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fabfab/documind/textutil"
)

const (
	rawTextIndexLimit = 10000
	maxIndexTokens    = 5000
	maxTokenBytes     = 500
	minTokenLength    = 2
)

// BuildSearchText flattens a document's analyzed fields and the head of its
// raw text into the normalized token string fed to the full-text index.
// Tokens are alphanumeric, at least two characters, capped at 500 bytes each
// (tsvector rejects oversized lexemes), deduplicated, and limited to 5,000
// overall.
func BuildSearchText(doc *Document) string {
	parts := []string{doc.Filename, doc.Analysis.Summary}
	for _, section := range doc.Analysis.Sections {
		parts = append(parts, section.Title, section.Content)
	}
	parts = append(parts, doc.Analysis.KeyPoints...)
	parts = append(parts, doc.Analysis.QuestionsAnswered...)
	parts = append(parts, doc.Analysis.Conclusions...)
	parts = append(parts, doc.Analysis.Relationships...)

	parts = append(parts, textutil.Truncate(doc.RawText, rawTextIndexLimit))

	joined := strings.Join(parts, " ")
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, joined)

	seen := make(map[string]struct{})
	tokens := make([]string, 0, maxIndexTokens)
	for _, word := range strings.Fields(normalized) {
		if utf8.RuneCountInString(word) < minTokenLength || len(word) > maxTokenBytes {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		tokens = append(tokens, word)
		if len(tokens) == maxIndexTokens {
			break
		}
	}

	return strings.Join(tokens, " ")
}
