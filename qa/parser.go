package qa

import (
	"encoding/json"
	"strings"
)

// parsedCompletion is the structured shape the model is instructed to emit.
type parsedCompletion struct {
	Answer         string   `json:"answer"`
	PrimarySources []string `json:"primary_sources"`
}

// parseCompletion extracts the structured answer from a completion in two
// stages: a strict decode of the whole text, then a decode of the first
// brace-delimited span (models often wrap their JSON in prose or markdown
// fencing). If both fail the entire completion becomes the answer with no
// source ranking; a malformed completion must never fail the request.
func parseCompletion(raw string) parsedCompletion {
	if parsed, ok := decodeCompletion(strings.TrimSpace(raw)); ok {
		return withFallbackAnswer(parsed, raw)
	}

	if span, ok := braceSpan(raw); ok {
		if parsed, ok := decodeCompletion(span); ok {
			return withFallbackAnswer(parsed, raw)
		}
	}

	return parsedCompletion{Answer: raw}
}

func decodeCompletion(text string) (parsedCompletion, bool) {
	if !strings.HasPrefix(text, "{") {
		return parsedCompletion{}, false
	}
	var parsed parsedCompletion
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return parsedCompletion{}, false
	}
	return parsed, true
}

// braceSpan returns the substring from the first '{' to the last '}'.
func braceSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// withFallbackAnswer substitutes the raw completion when the decoded object
// has no answer field. Any decoded source ranking is kept either way.
func withFallbackAnswer(parsed parsedCompletion, raw string) parsedCompletion {
	if parsed.Answer == "" {
		parsed.Answer = raw
	}
	return parsed
}
