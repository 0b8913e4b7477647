package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"cargo-chatbot-be/pkg/llm"
	"cargo-chatbot-be/pkg/rag/classify"
	"cargo-chatbot-be/pkg/rag/generate"
	"cargo-chatbot-be/pkg/rag/retrieve"
	"cargo-chatbot-be/pkg/rag/session"
	"cargo-chatbot-be/pkg/store"
)

type fakeSearcher struct {
	docs []store.Document
	err  error
}

func (f *fakeSearcher) Search(context.Context, string, int) ([]store.Document, error) {
	return f.docs, f.err
}

// fakeLLM returns answers in order, one per Chat call.
type fakeLLM struct {
	answers []string
	err     error
	calls   int
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	answer := f.answers[f.calls]
	f.calls++
	return answer, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func barleyDocs() []store.Document {
	mk := func(content string) store.Document {
		return store.Document{
			Content: content,
			Metadata: map[string]string{
				store.MetaSource:   "barley_rates.md",
				store.MetaCategory: "Barley",
			},
		}
	}
	return []store.Document{
		mk("Barley rates start at 42 USD per tonne."),
		mk("Barley rail rates include wagon loading."),
		mk("Barley rates by corridor are updated weekly."),
	}
}

func newTestPipeline(searcher retrieve.VectorSearcher, provider llm.LLMProvider) *Pipeline {
	logger := log.New(io.Discard, "", 0)
	retriever := retrieve.NewRetriever(searcher, logger)
	generator := generate.NewGenerator(provider, logger)
	return New(retriever, generator, logger)
}

const goodAnswer = "Barley rates start at 42 USD per tonne on the rail corridor, loading included."

func TestInvokeHappyPath(t *testing.T) {
	provider := &fakeLLM{answers: []string{goodAnswer}}
	p := newTestPipeline(&fakeSearcher{docs: barleyDocs()}, provider)

	st := &State{Question: "What are your barley rates?"}
	if err := p.Invoke(context.Background(), st); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if st.Category != classify.CategoryBarley {
		t.Errorf("category = %q, want Barley", st.Category)
	}
	if len(st.Context) == 0 {
		t.Error("expected retrieved context")
	}
	if st.ContextRelevance <= 0 {
		t.Errorf("context relevance = %v, want > 0", st.ContextRelevance)
	}
	if st.NeedsRefinement {
		t.Error("acceptable answer should not need refinement")
	}
	if st.NeedsHumanAssistance {
		t.Error("well grounded answer should not escalate")
	}
	if st.FinalAnswer != goodAnswer {
		t.Errorf("final answer = %q, want the generated answer", st.FinalAnswer)
	}
	if provider.calls != 1 {
		t.Errorf("llm calls = %d, want 1", provider.calls)
	}
}

func TestInvokeRefinesWeakAnswer(t *testing.T) {
	refined := "Refined: barley rates start at 42 USD per tonne with weekly departures by rail."
	provider := &fakeLLM{answers: []string{"Too short.", refined}}
	p := newTestPipeline(&fakeSearcher{docs: barleyDocs()}, provider)

	st := &State{Question: "What are your barley rates?"}
	if err := p.Invoke(context.Background(), st); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if !st.NeedsRefinement {
		t.Error("short answer should trigger refinement")
	}
	if st.FinalAnswer != refined {
		t.Errorf("final answer = %q, want the refined answer", st.FinalAnswer)
	}
	if provider.calls != 2 {
		t.Errorf("llm calls = %d, want 2", provider.calls)
	}
}

func TestInvokeEscalatesOnEmptyContext(t *testing.T) {
	provider := &fakeLLM{answers: []string{goodAnswer}}
	p := newTestPipeline(&fakeSearcher{err: errors.New("index offline")}, provider)

	st := &State{Question: "What are your barley rates?"}
	if err := p.Invoke(context.Background(), st); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if len(st.Context) != 0 {
		t.Errorf("context length = %d, want 0", len(st.Context))
	}
	if st.ContextRelevance != 0 {
		t.Errorf("context relevance = %v, want 0", st.ContextRelevance)
	}
	if !st.NeedsHumanAssistance {
		t.Error("empty context should escalate")
	}
	if !strings.Contains(st.FinalAnswer, "logistics team") {
		t.Errorf("final answer should be the handoff message, got %q", st.FinalAnswer)
	}
}

func TestInvokeHandoffOverridesRefinedAnswer(t *testing.T) {
	// Weak answer over weakly relevant context: both refinement and
	// escalation fire, and the handoff text must win.
	offTopic := []store.Document{
		{Content: "Office opening hours.", Metadata: map[string]string{
			store.MetaSource:   "contact.md",
			store.MetaCategory: "General",
		}},
		{Content: "Holiday schedule.", Metadata: map[string]string{
			store.MetaSource:   "contact.md",
			store.MetaCategory: "General",
		}},
		{Content: "Phone directory.", Metadata: map[string]string{
			store.MetaSource:   "contact.md",
			store.MetaCategory: "General",
		}},
	}
	provider := &fakeLLM{answers: []string{"Too short.", "A refined answer that is long enough to pass the style validation easily."}}
	p := newTestPipeline(&fakeSearcher{docs: offTopic}, provider)

	st := &State{Question: "What are your barley rates?"}
	if err := p.Invoke(context.Background(), st); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if !st.NeedsRefinement || !st.NeedsHumanAssistance {
		t.Fatalf("expected both flags, got refinement=%v assistance=%v",
			st.NeedsRefinement, st.NeedsHumanAssistance)
	}
	if !strings.Contains(st.FinalAnswer, "logistics team") {
		t.Errorf("handoff must override refined answer, got %q", st.FinalAnswer)
	}
	if st.Answer != "Too short." {
		t.Errorf("raw answer = %q, want the first generation", st.Answer)
	}
}

func TestInvokeGenerationFailureIsFatal(t *testing.T) {
	provider := &fakeLLM{err: errors.New("provider down")}
	p := newTestPipeline(&fakeSearcher{docs: barleyDocs()}, provider)

	st := &State{Question: "What are your barley rates?"}
	err := p.Invoke(context.Background(), st)

	if err == nil {
		t.Fatal("expected error from failed generation")
	}
	if !strings.Contains(err.Error(), "generate") {
		t.Errorf("error should name the failing step, got %v", err)
	}
}

func TestInvokeCarriesHistoryToPrompt(t *testing.T) {
	provider := &fakeLLM{answers: []string{goodAnswer}}
	p := newTestPipeline(&fakeSearcher{docs: barleyDocs()}, provider)

	st := &State{
		Question: "And what about barley by rail?",
		History: []session.Message{
			{Role: session.RoleHuman, Content: "Do you ship grain?"},
			{Role: session.RoleAssistant, Content: "Yes, by rail and sea."},
		},
	}
	if err := p.Invoke(context.Background(), st); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if st.FinalAnswer != goodAnswer {
		t.Errorf("final answer = %q, want the generated answer", st.FinalAnswer)
	}
}
