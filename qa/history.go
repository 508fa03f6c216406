package qa

import (
	"strings"

	"github.com/fabfab/documind/provider"
)

// messagePairLimit is the number of question/answer pairs a conversation may
// accumulate before the next answer triggers summarization. Counting messages
// rather than tokens keeps the threshold deterministic and easy to reason
// about.
const messagePairLimit = 10

// Turn is one conversation message, role user or assistant. All history is
// supplied by the caller on each request; the core holds no session state.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// needsSummarization reports whether the history carried into this request
// has reached the summarization threshold. The exchange currently being
// produced does not count.
func needsSummarization(turnCount int) bool {
	return turnCount >= messagePairLimit*2
}

// renderHistory formats the prior summary and recent turns for prompt
// injection. Both parts are optional; with neither present it returns "" and
// the history block is omitted from the prompt entirely.
func renderHistory(summary string, turns []Turn) string {
	parts := make([]string, 0, 2)

	if strings.TrimSpace(summary) != "" {
		parts = append(parts, "Previous conversation summary:\n"+summary)
	}
	if len(turns) > 0 {
		parts = append(parts, "Recent conversation:\n"+renderTurns(turns))
	}

	return strings.Join(parts, "\n\n")
}

func renderTurns(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		label := "Assistant"
		if turn.Role == provider.RoleUser {
			label = "User"
		}
		lines = append(lines, label+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
