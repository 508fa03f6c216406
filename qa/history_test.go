package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fabfab/documind/provider"
)

func TestNeedsSummarizationBoundary(t *testing.T) {
	for count := 0; count < 20; count++ {
		assert.False(t, needsSummarization(count), "count %d", count)
	}
	assert.True(t, needsSummarization(20))
	assert.True(t, needsSummarization(21))
	assert.True(t, needsSummarization(40))
}

func TestRenderHistory(t *testing.T) {
	turns := []Turn{
		{Role: provider.RoleUser, Content: "What is the total?"},
		{Role: provider.RoleAssistant, Content: "The total is $12."},
	}

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", renderHistory("", nil))
	})

	t.Run("summary_only", func(t *testing.T) {
		got := renderHistory("we talked about receipts", nil)
		assert.Equal(t, "Previous conversation summary:\nwe talked about receipts", got)
	})

	t.Run("turns_only", func(t *testing.T) {
		got := renderHistory("", turns)
		assert.Equal(t, "Recent conversation:\nUser: What is the total?\nAssistant: The total is $12.", got)
	})

	t.Run("summary_and_turns", func(t *testing.T) {
		got := renderHistory("earlier summary", turns)
		assert.Contains(t, got, "Previous conversation summary:\nearlier summary")
		assert.Contains(t, got, "Recent conversation:\nUser: What is the total?")
		assert.Contains(t, got, "\n\n")
	})
}
