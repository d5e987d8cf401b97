package answer

import (
	"fmt"
	"strings"

	"github.com/fwojciec/recall"
)

// maxPromptSources bounds the number of context blocks in the augmentation
// prompt.
const maxPromptSources = 12

// systemInstruction constrains the augmentation model to grounded answers.
const systemInstruction = "You are a helpful assistant answering questions from the user's personal knowledge base. " +
	"Answer based only on the context provided, and make clear that the answer is grounded in the user's saved knowledge. " +
	"If the answer is not in the context, say so."

// ComposePrompt builds the system instruction and user prompt for the
// optional LLM augmentation step: up to 12 numbered [source] text blocks
// followed by the question.
func ComposePrompt(results []recall.RetrievalResult, query string) (system, prompt string) {
	var sb strings.Builder
	sb.WriteString("Context from the knowledge base:\n\n")

	n := len(results)
	if n > maxPromptSources {
		n = maxPromptSources
	}
	for i := 0; i < n; i++ {
		label := results[i].Source.Title
		if label == "" {
			label = results[i].Source.URL
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n\n", i+1, label, strings.TrimSpace(results[i].Content))
	}

	fmt.Fprintf(&sb, "Question: %s", query)
	return systemInstruction, sb.String()
}
