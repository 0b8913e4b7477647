// Package pipeline sequences one question/answer cycle through a fixed
// six-step state machine:
//
//	categorize → retrieve → generate → validate
//	    → refine (when the answer needs work) → handleHumanAssistance → done
//	    → handleHumanAssistance (otherwise)   → done
//
// Steps never re-enter and each is idempotent over identical input, so the
// machine is a closed, statically checkable table rather than a generic
// graph engine.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"cargo-chatbot-be/pkg/rag/classify"
	"cargo-chatbot-be/pkg/rag/generate"
	"cargo-chatbot-be/pkg/rag/prompt"
	"cargo-chatbot-be/pkg/rag/retrieve"
	"cargo-chatbot-be/pkg/rag/score"
	"cargo-chatbot-be/pkg/rag/validate"
)

type stepFunc func(ctx context.Context, st *State) (Step, error)

// Pipeline wires the RAG components into the state machine.
type Pipeline struct {
	retriever *retrieve.Retriever
	generator *generate.Generator
	logger    *log.Logger

	steps map[Step]stepFunc
}

func New(retriever *retrieve.Retriever, generator *generate.Generator, logger *log.Logger) *Pipeline {
	p := &Pipeline{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
	p.steps = map[Step]stepFunc{
		stepCategorize:            p.categorize,
		stepRetrieve:              p.retrieve,
		stepGenerate:              p.generate,
		stepValidate:              p.validate,
		stepRefine:                p.refine,
		stepHandleHumanAssistance: p.handleHumanAssistance,
	}
	return p
}

// Invoke runs the machine to completion for one request. A step error aborts
// the whole invocation; there is no partial result beyond the retriever's
// internal degrade-to-empty.
func (p *Pipeline) Invoke(ctx context.Context, st *State) error {
	for step := stepCategorize; step != stepDone; {
		next, err := p.steps[step](ctx, st)
		if err != nil {
			return fmt.Errorf("pipeline step %s: %w", step, err)
		}
		step = next
	}
	return nil
}

func (p *Pipeline) categorize(_ context.Context, st *State) (Step, error) {
	st.Category = classify.Classify(st.Question)
	p.logger.Printf("[PIPELINE] Question categorized as %q", st.Category)
	return stepRetrieve, nil
}

func (p *Pipeline) retrieve(ctx context.Context, st *State) (Step, error) {
	st.Context = p.retriever.Retrieve(ctx, st.Question, st.Category, retrieve.ContextLimit)
	st.ContextRelevance = score.ContextRelevance(st.Context, st.Question)
	p.logger.Printf("[PIPELINE] Retrieved %d documents (relevance=%.2f)", len(st.Context), st.ContextRelevance)
	return stepGenerate, nil
}

func (p *Pipeline) generate(ctx context.Context, st *State) (Step, error) {
	answer, err := p.generator.Generate(ctx, st.Question, st.Context, st.History)
	if err != nil {
		return stepDone, err
	}
	st.Answer = answer
	return stepValidate, nil
}

// validate evaluates the unrefined answer. The two flags are independent
// signals: refinement is about answer quality, human assistance about
// grounding confidence.
func (p *Pipeline) validate(_ context.Context, st *State) (Step, error) {
	st.NeedsRefinement = !validate.IsAcceptable(st.Answer, st.Question)
	st.NeedsHumanAssistance = validate.NeedsHumanHelp(st.Question, st.Context, st.Answer)

	p.logger.Printf("[PIPELINE] Validation: needsRefinement=%v needsHumanAssistance=%v",
		st.NeedsRefinement, st.NeedsHumanAssistance)

	if st.NeedsRefinement {
		return stepRefine, nil
	}
	return stepHandleHumanAssistance, nil
}

func (p *Pipeline) refine(ctx context.Context, st *State) (Step, error) {
	if !st.NeedsRefinement {
		st.FinalAnswer = st.Answer
		return stepHandleHumanAssistance, nil
	}

	refined, err := p.generator.Refine(ctx, st.Question, st.Context, st.Answer)
	if err != nil {
		return stepDone, err
	}
	st.FinalAnswer = refined
	return stepHandleHumanAssistance, nil
}

// handleHumanAssistance settles the final answer. Escalation takes priority
// over any refined text; otherwise whatever the refine step produced stands,
// falling back to the raw answer.
func (p *Pipeline) handleHumanAssistance(_ context.Context, st *State) (Step, error) {
	if st.NeedsHumanAssistance {
		st.FinalAnswer = prompt.HandoffMessage(st.Question)
		return stepDone, nil
	}
	if st.FinalAnswer == "" {
		st.FinalAnswer = st.Answer
	}
	return stepDone, nil
}
