package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"testing"

	"cargo-chatbot-be/internal/dto"
	"cargo-chatbot-be/pkg/llm"
	"cargo-chatbot-be/pkg/rag/generate"
	"cargo-chatbot-be/pkg/rag/pipeline"
	"cargo-chatbot-be/pkg/rag/retrieve"
	"cargo-chatbot-be/pkg/rag/session"
	"cargo-chatbot-be/pkg/store"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	done     chan struct{}
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{done: make(chan struct{}, 8)}
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	p.payloads = append(p.payloads, payload)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *capturingPublisher) last(t *testing.T) dto.InteractionMessage {
	t.Helper()
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.payloads) == 0 {
		t.Fatal("no interaction published")
	}
	var msg dto.InteractionMessage
	if err := json.Unmarshal(p.payloads[len(p.payloads)-1], &msg); err != nil {
		t.Fatalf("invalid interaction payload: %v", err)
	}
	return msg
}

type staticSearcher struct {
	docs []store.Document
}

func (s *staticSearcher) Search(context.Context, string, int) ([]store.Document, error) {
	return s.docs, nil
}

type staticLLM struct {
	answer string
}

func (s *staticLLM) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return s.answer, nil
}

func (s *staticLLM) Generate(context.Context, string, ...llm.Option) (string, error) {
	return s.answer, nil
}

func barleyKnowledge() []store.Document {
	mk := func(content string) store.Document {
		return store.Document{
			Content: content,
			Metadata: map[string]string{
				store.MetaSource:   "barley_rail.md",
				store.MetaCategory: "Barley",
			},
		}
	}
	return []store.Document{
		mk("Barley rail rates start at 42 USD per tonne."),
		mk("Barley rail shipments depart weekly."),
		mk("Barley rail rates include wagon loading."),
	}
}

func newTestChatService(docs []store.Document, answer string, publisher IPublisherService) (IChatService, *session.Manager) {
	discard := log.New(io.Discard, "", 0)
	retriever := retrieve.NewRetriever(&staticSearcher{docs: docs}, discard)
	generator := generate.NewGenerator(&staticLLM{answer: answer}, discard)
	p := pipeline.New(retriever, generator, discard)
	sessions := session.NewManager()
	return NewChatService(sessions, p, publisher, nil, noopLogger{}), sessions
}

const railAnswer = "Barley moves by rail at 42 USD per tonne, with weekly departures and loading included."

func TestChatFreshSession(t *testing.T) {
	publisher := newCapturingPublisher()
	svc, _ := newTestChatService(barleyKnowledge(), railAnswer, publisher)

	resp, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "What is the rate for barley by rail?",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.SessionId == "" {
		t.Error("expected a generated session id")
	}
	if resp.Category != "Barley" {
		t.Errorf("category = %q, want Barley", resp.Category)
	}
	if resp.Answer != railAnswer {
		t.Errorf("answer = %q, want the generated answer", resp.Answer)
	}
	if resp.NeedsHumanAssistance {
		t.Error("well grounded answer should not escalate")
	}
	if resp.ContextRelevance <= 0 {
		t.Errorf("context relevance = %v, want > 0", resp.ContextRelevance)
	}

	msg := publisher.last(t)
	if msg.SessionId != resp.SessionId {
		t.Errorf("published session id = %q, want %q", msg.SessionId, resp.SessionId)
	}
	if msg.Category != "Barley" {
		t.Errorf("published category = %q, want Barley", msg.Category)
	}
	if len(msg.ContextSources) == 0 || msg.ContextSources[0] != "barley_rail.md" {
		t.Errorf("published sources = %v, want barley_rail.md first", msg.ContextSources)
	}
}

func TestChatPublishesClientMetadata(t *testing.T) {
	publisher := newCapturingPublisher()
	svc, _ := newTestChatService(barleyKnowledge(), railAnswer, publisher)

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Question:  "What is the rate for barley by rail?",
		UserAgent: "Mozilla/5.0 (support-portal)",
		IpAddress: "203.0.113.7",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	msg := publisher.last(t)
	if msg.UserAgent != "Mozilla/5.0 (support-portal)" {
		t.Errorf("published user agent = %q, want the request's", msg.UserAgent)
	}
	if msg.IpAddress != "203.0.113.7" {
		t.Errorf("published ip address = %q, want the request's", msg.IpAddress)
	}
}

func TestChatAppendsHistory(t *testing.T) {
	publisher := newCapturingPublisher()
	svc, sessions := newTestChatService(barleyKnowledge(), railAnswer, publisher)

	resp, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Question:  "What is the rate for barley by rail?",
		SessionId: "conv-1",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.SessionId != "conv-1" {
		t.Errorf("session id = %q, want conv-1", resp.SessionId)
	}

	history := sessions.GetFullHistory("conv-1")
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != session.RoleHuman || history[1].Role != session.RoleAssistant {
		t.Errorf("history roles = %q/%q, want human/assistant", history[0].Role, history[1].Role)
	}
	if history[1].Content != railAnswer {
		t.Errorf("assistant turn = %q, want the final answer", history[1].Content)
	}

	// A second turn reuses the same session.
	if _, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Question:  "And what about oversized cargo?",
		SessionId: "conv-1",
	}); err != nil {
		t.Fatalf("second Chat failed: %v", err)
	}
	if got := len(sessions.GetFullHistory("conv-1")); got != 4 {
		t.Errorf("history length after second turn = %d, want 4", got)
	}
}

func TestChatEscalationOverridesAnswer(t *testing.T) {
	publisher := newCapturingPublisher()
	// No knowledge at all forces a handoff regardless of answer quality.
	svc, _ := newTestChatService(nil, railAnswer, publisher)

	resp, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "What is the rate for barley by rail?",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if !resp.NeedsHumanAssistance {
		t.Error("empty knowledge base should escalate")
	}
	if resp.Answer == railAnswer {
		t.Error("handoff message should replace the generated answer")
	}
	if resp.ContextRelevance != 0 {
		t.Errorf("context relevance = %v, want 0", resp.ContextRelevance)
	}

	msg := publisher.last(t)
	if !msg.HumanAssistanceRequired {
		t.Error("published interaction should record the escalation")
	}
	if len(msg.ContextSources) != 0 {
		t.Errorf("published sources = %v, want none", msg.ContextSources)
	}
}

func TestWindowSizeRoundTrip(t *testing.T) {
	svc, _ := newTestChatService(barleyKnowledge(), railAnswer, nil)

	got := svc.GetWindowSize("conv-1")
	if got.WindowSize != session.DefaultWindowSize {
		t.Errorf("initial window size = %d, want %d", got.WindowSize, session.DefaultWindowSize)
	}

	set := svc.SetWindowSize("conv-1", 4)
	if set.WindowSize != 4 {
		t.Errorf("window size after set = %d, want 4", set.WindowSize)
	}
}

func TestSetDefaultWindowSize(t *testing.T) {
	svc, _ := newTestChatService(barleyKnowledge(), railAnswer, nil)

	got := svc.SetDefaultWindowSize(6)
	if got.WindowSize != 6 {
		t.Errorf("default window size = %d, want 6", got.WindowSize)
	}

	ignored := svc.SetDefaultWindowSize(0)
	if ignored.WindowSize != 6 {
		t.Errorf("default window size after invalid set = %d, want 6", ignored.WindowSize)
	}
}

func TestGetHistoryUnknownSession(t *testing.T) {
	svc, _ := newTestChatService(barleyKnowledge(), railAnswer, nil)

	resp := svc.GetHistory("missing")
	if resp.SessionId != "missing" {
		t.Errorf("session id = %q, want missing", resp.SessionId)
	}
	if len(resp.Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(resp.Messages))
	}
}
