package generate

import (
	"context"
	"fmt"
	"log"

	"cargo-chatbot-be/pkg/llm"
	"cargo-chatbot-be/pkg/rag/prompt"
	"cargo-chatbot-be/pkg/rag/session"
	"cargo-chatbot-be/pkg/store"
)

// Generator produces and refines answers through the external LLM provider.
// Provider failures are propagated: generation is the one step whose failure
// is fatal to the current invocation.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate answers the question from the retrieved context, with the
// conversation window embedded when present.
func (g *Generator) Generate(ctx context.Context, question string, docs []store.Document, history []session.Message) (string, error) {
	messages := prompt.Generation(question, docs, history)

	answer, err := g.llmProvider.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}

	g.logger.Printf("[GENERATE] Answer generated from %d documents (history=%d turns)", len(docs), len(history))
	return answer, nil
}

// Refine asks the provider for an improved version of a previously generated
// answer. Only called when validation flagged the first pass.
func (g *Generator) Refine(ctx context.Context, question string, docs []store.Document, priorAnswer string) (string, error) {
	messages := prompt.Refinement(question, docs, priorAnswer)

	refined, err := g.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("answer refinement failed: %w", err)
	}

	g.logger.Printf("[REFINE] Answer refined (%d -> %d chars)", len(priorAnswer), len(refined))
	return refined, nil
}
