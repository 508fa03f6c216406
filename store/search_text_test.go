package store

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildSearchTextNormalizes(t *testing.T) {
	doc := &Document{
		Filename: "Q3-report.pdf",
		RawText:  "Totals: $1,200.50 due!",
		Analysis: Analysis{
			Summary:   "Revenue report",
			KeyPoints: []string{"revenue up"},
		},
	}

	text := BuildSearchText(doc)

	assert.Contains(t, text, "Q3")
	assert.Contains(t, text, "report")
	assert.Contains(t, text, "Revenue")
	assert.Contains(t, text, "200")
	assert.NotContains(t, text, "$")
	assert.NotContains(t, text, ",")
	assert.NotContains(t, text, "!")
}

func TestBuildSearchTextDeduplicates(t *testing.T) {
	doc := &Document{
		Filename: "notes.txt",
		RawText:  "alpha alpha alpha beta",
	}

	tokens := strings.Fields(BuildSearchText(doc))
	counts := map[string]int{}
	for _, token := range tokens {
		counts[token]++
	}
	assert.Equal(t, 1, counts["alpha"])
	assert.Equal(t, 1, counts["beta"])
}

func TestBuildSearchTextDropsShortAndOversizedTokens(t *testing.T) {
	doc := &Document{
		Filename: "x.txt",
		RawText:  "a ok " + strings.Repeat("z", 501),
	}

	tokens := strings.Fields(BuildSearchText(doc))
	assert.Contains(t, tokens, "ok")
	assert.Contains(t, tokens, "txt")
	assert.NotContains(t, tokens, "a")
	assert.NotContains(t, tokens, strings.Repeat("z", 501))
}

func TestBuildSearchTextCapsTokenCount(t *testing.T) {
	// Key points bypass the raw-text head cap, so every word reaches the
	// tokenizer and the 5,000-token ceiling is what stops it.
	points := make([]string, 0, 6000)
	for i := 0; i < 6000; i++ {
		points = append(points, "tok"+strconv.Itoa(i))
	}
	doc := &Document{
		Filename: "big.txt",
		Analysis: Analysis{KeyPoints: points},
	}

	tokens := strings.Fields(BuildSearchText(doc))
	assert.Len(t, tokens, maxIndexTokens)
}

func TestBuildSearchTextIndexesRawTextHeadOnly(t *testing.T) {
	words := make([]string, 0, 3000)
	for i := 0; i < 3000; i++ {
		words = append(words, "raw"+strconv.Itoa(i))
	}
	doc := &Document{Filename: "long.txt", RawText: strings.Join(words, " ")}

	tokens := strings.Fields(BuildSearchText(doc))
	assert.Contains(t, tokens, "raw0")
	assert.NotContains(t, tokens, "raw2999")
}

func TestBuildSearchTextTruncatesRawTextOnRuneBoundary(t *testing.T) {
	doc := &Document{
		Filename: "cjk.txt",
		RawText:  strings.Repeat("世界 ", rawTextIndexLimit),
	}

	for _, token := range strings.Fields(BuildSearchText(doc)) {
		assert.True(t, utf8.ValidString(token))
	}
}
