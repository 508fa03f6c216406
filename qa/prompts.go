package qa

import (
	"fmt"
	"strings"

	"github.com/fabfab/documind/store"
)

func answerSystemPrompt(docs []store.Document) string {
	names := make([]string, len(docs))
	for i := range docs {
		names[i] = docs[i].Filename
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions based ONLY on the provided document context.

Available documents: %s

Rules:
- Only use information from the provided context
- If the answer isn't in the context, say "I couldn't find this information in your documents"
- Be concise and direct
- Take into account any conversation history provided to give contextual answers

IMPORTANT: You MUST respond with valid JSON in this exact format:
{
  "answer": "Your detailed answer here, formatted with markdown if needed",
  "primary_sources": ["most_relevant_doc.pdf", "second_most_relevant.pdf"]
}

The "primary_sources" array should list the document filenames in order of how much you used them to answer the question.
Only include documents you actually referenced. If you only used one document, only list that one.`, strings.Join(names, ", "))
}

func answerUserPrompt(context, question string) string {
	return fmt.Sprintf(`Based on the following documents, please answer the question.

%s

Question: %s`, context, question)
}

const summarySystemPrompt = "You are a helpful assistant that summarizes conversations concisely while preserving important context."

func summaryUserPrompt(prevSummary, conversation string) string {
	prefix := ""
	if prevSummary != "" {
		prefix = "Previous summary: " + prevSummary + "\n\n"
	}

	return fmt.Sprintf(`Please summarize the following conversation about a document.
Capture the key topics discussed, important information revealed, and any conclusions reached.
Keep the summary concise but comprehensive enough to continue the conversation.

%sConversation:
%s

Provide a summary in 2-3 paragraphs.`, prefix, conversation)
}
