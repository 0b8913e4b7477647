package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cargo-chatbot-be/internal/dto"
	"cargo-chatbot-be/internal/pkg/logger"
	"cargo-chatbot-be/pkg/events"
	pktNats "cargo-chatbot-be/pkg/nats"
	"cargo-chatbot-be/pkg/rag/pipeline"
	"cargo-chatbot-be/pkg/rag/session"
	"cargo-chatbot-be/pkg/store"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(sessionId string) *dto.SessionHistoryResponse
	GetWindowSize(sessionId string) *dto.WindowSizeResponse
	SetWindowSize(sessionId string, size int) *dto.WindowSizeResponse
	SetDefaultWindowSize(size int) *dto.DefaultWindowSizeResponse
}

type chatService struct {
	sessions  *session.Manager
	pipeline  *pipeline.Pipeline
	publisher IPublisherService
	eventPub  *pktNats.Publisher
	logger    logger.ILogger
}

func NewChatService(
	sessions *session.Manager,
	p *pipeline.Pipeline,
	publisher IPublisherService,
	eventPub *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessions:  sessions,
		pipeline:  p,
		publisher: publisher,
		eventPub:  eventPub,
		logger:    log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	start := time.Now()

	sess := s.sessions.GetOrCreateSession(req.SessionId)
	history := s.sessions.GetFormattedHistory(sess.SessionId, req.WindowSize)

	st := &pipeline.State{
		Question:  req.Question,
		History:   history,
		SessionId: sess.SessionId,
	}

	if err := s.pipeline.Invoke(ctx, st); err != nil {
		s.logger.Error("ChatService", "Pipeline invocation failed", map[string]interface{}{
			"session_id": sess.SessionId,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to answer question: %w", err)
	}

	// The session survives a failed invocation untouched; on success the new
	// turn is appended before responding.
	s.sessions.AddMessage(sess.SessionId, session.Message{Role: session.RoleHuman, Content: req.Question})
	s.sessions.AddMessage(sess.SessionId, session.Message{Role: session.RoleAssistant, Content: st.FinalAnswer})

	responseTimeMs := time.Since(start).Milliseconds()

	s.logInteraction(st, req, responseTimeMs)

	if st.NeedsHumanAssistance {
		s.raiseEscalation(ctx, st)
	}

	return &dto.ChatResponse{
		Answer:               st.FinalAnswer,
		SessionId:            sess.SessionId,
		Category:             string(st.Category),
		ContextRelevance:     st.ContextRelevance,
		NeedsHumanAssistance: st.NeedsHumanAssistance,
		ResponseTimeMs:       responseTimeMs,
	}, nil
}

// logInteraction publishes the completed interaction to the analytics topic.
// Fire-and-forget: failures are logged and never surface to the caller.
func (s *chatService) logInteraction(st *pipeline.State, req *dto.ChatRequest, responseTimeMs int64) {
	if s.publisher == nil {
		return
	}

	msg := dto.InteractionMessage{
		SessionId:               st.SessionId,
		Question:                st.Question,
		Answer:                  st.FinalAnswer,
		Category:                string(st.Category),
		ContextRelevance:        st.ContextRelevance,
		ContextSources:          contextSources(st.Context),
		HumanAssistanceRequired: st.NeedsHumanAssistance,
		RefinementPerformed:     st.NeedsRefinement,
		ResponseTimeMs:          responseTimeMs,
		UserAgent:               req.UserAgent,
		IpAddress:               req.IpAddress,
		Timestamp:               time.Now(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("ChatService", "Failed to marshal interaction", map[string]interface{}{"error": err.Error()})
		return
	}

	go func() {
		if err := s.publisher.Publish(context.Background(), payload); err != nil {
			s.logger.Warn("ChatService", "Failed to publish interaction", map[string]interface{}{
				"session_id": msg.SessionId,
				"error":      err.Error(),
			})
		}
	}()
}

func (s *chatService) raiseEscalation(ctx context.Context, st *pipeline.State) {
	if s.eventPub == nil {
		return
	}

	evt := events.NewEscalationRaised(st.SessionId, st.Question, string(st.Category), st.ContextRelevance)
	if err := s.eventPub.Publish(ctx, evt); err != nil {
		s.logger.Warn("ChatService", "Failed to publish escalation event", map[string]interface{}{
			"session_id": st.SessionId,
			"error":      err.Error(),
		})
	}
}

func (s *chatService) GetHistory(sessionId string) *dto.SessionHistoryResponse {
	history := s.sessions.GetFullHistory(sessionId)

	messages := make([]dto.HistoryMessage, len(history))
	for i, m := range history {
		messages[i] = dto.HistoryMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}

	return &dto.SessionHistoryResponse{
		SessionId: sessionId,
		Messages:  messages,
	}
}

func (s *chatService) GetWindowSize(sessionId string) *dto.WindowSizeResponse {
	return &dto.WindowSizeResponse{
		SessionId:  sessionId,
		WindowSize: s.sessions.GetConversationWindowSize(sessionId),
	}
}

func (s *chatService) SetWindowSize(sessionId string, size int) *dto.WindowSizeResponse {
	s.sessions.SetConversationWindowSize(sessionId, size)
	return s.GetWindowSize(sessionId)
}

func (s *chatService) SetDefaultWindowSize(size int) *dto.DefaultWindowSizeResponse {
	s.sessions.SetDefaultWindowSize(size)
	return &dto.DefaultWindowSizeResponse{WindowSize: s.sessions.GetDefaultWindowSize()}
}

func contextSources(docs []store.Document) []string {
	sources := make([]string, len(docs))
	for i, doc := range docs {
		src := doc.Source()
		if src == "" {
			src = "Unknown Source"
		}
		sources[i] = src
	}
	return sources
}
