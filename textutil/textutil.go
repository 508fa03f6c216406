// Package textutil has small string helpers shared by the prompt builders
// and the search indexer.
package textutil

// Truncate returns at most limit runes of s, never cutting inside a
// multi-byte rune.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
