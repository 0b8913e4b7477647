// Package prompt builds the message payloads sent to the LLM provider, plus
// the deterministic human-handoff message. Formatting here is load-bearing:
// the analytics pipeline and tests rely on the exact context layout.
package prompt

import (
	"fmt"
	"strings"

	"cargo-chatbot-be/pkg/llm"
	"cargo-chatbot-be/pkg/rag/session"
	"cargo-chatbot-be/pkg/store"
)

const systemInstruction = `You are a knowledgeable support assistant for a freight and commodity logistics company.
Answer the customer's question using ONLY the provided company documents.
Quote rates, schedules and conditions exactly as they appear in the documents.
If the documents do not contain the answer, say so plainly instead of guessing.`

const fallbackSource = "Company Document"

// FormatContext renders retrieved documents for the generation prompt, one
// block per document in retrieval order:
//
//	Source: <source>
//	<content>
//
// separated by blank lines. Documents without a recorded source are
// attributed to the generic fallback.
func FormatContext(docs []store.Document) string {
	blocks := make([]string, len(docs))
	for i, doc := range docs {
		source := doc.Source()
		if source == "" {
			source = fallbackSource
		}
		blocks[i] = fmt.Sprintf("Source: %s\n%s", source, doc.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// FormatHistory renders conversation turns as "role: content" lines,
// blank-line separated, oldest first.
func FormatHistory(history []session.Message) string {
	lines := make([]string, len(history))
	for i, msg := range history {
		lines[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}
	return strings.Join(lines, "\n\n")
}

// Generation builds the prompt for first-pass answer generation. A
// conversational template is used when history is present, a stateless one
// otherwise.
func Generation(question string, docs []store.Document, history []session.Message) []llm.Message {
	var user strings.Builder

	user.WriteString("Company documents:\n\n")
	user.WriteString(FormatContext(docs))
	user.WriteString("\n\n")

	if len(history) > 0 {
		user.WriteString("Conversation so far:\n\n")
		user.WriteString(FormatHistory(history))
		user.WriteString("\n\n")
		user.WriteString("Answer the customer's next question, staying consistent with the conversation above.\n")
	}

	user.WriteString("Question: ")
	user.WriteString(question)

	return []llm.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: user.String()},
	}
}

// Refinement builds the prompt for the answer-improvement pass. Context is
// joined as plain content without source prefixes: refinement needs facts,
// not attribution.
func Refinement(question string, docs []store.Document, priorAnswer string) []llm.Message {
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	var user strings.Builder
	user.WriteString("Reference material:\n\n")
	user.WriteString(strings.Join(contents, "\n\n"))
	user.WriteString("\n\nQuestion: ")
	user.WriteString(question)
	user.WriteString("\n\nPrevious answer:\n")
	user.WriteString(priorAnswer)
	user.WriteString("\n\nThe previous answer was judged too weak. Rewrite it as an improved answer: " +
		"complete, specific, grounded strictly in the reference material, and without hedging.")

	return []llm.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: user.String()},
	}
}

// HandoffMessage is the escalation text returned in place of a generated
// answer when confidence is too low. It is a fixed template; handoffs never
// cost another model call.
func HandoffMessage(question string) string {
	return fmt.Sprintf(
		"I want to make sure you get an accurate answer to %q, and I don't have enough "+
			"reliable information to provide one myself. I've flagged your question for our "+
			"logistics team, and a specialist will follow up with you shortly. In the meantime, "+
			"feel free to ask me anything else about our commodities or transport services.",
		question)
}
