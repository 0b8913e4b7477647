package service

import (
	"context"
	"fmt"
	"time"

	"cargo-chatbot-be/internal/dto"
	"cargo-chatbot-be/internal/pkg/logger"
	"cargo-chatbot-be/internal/pkg/mailer"
	"cargo-chatbot-be/pkg/events"
	pktNats "cargo-chatbot-be/pkg/nats"
)

// EscalationDelivery defines how escalation alerts reach support agents.
// Typically implemented by the WebSocket Hub.
type EscalationDelivery interface {
	Broadcast(alert dto.EscalationAlert)
}

type EscalationService struct {
	subscriber   *pktNats.Subscriber
	delivery     EscalationDelivery
	emailService mailer.IEmailService
	supportEmail string
	logger       logger.ILogger
}

func NewEscalationService(
	sub *pktNats.Subscriber,
	delivery EscalationDelivery,
	emailService mailer.IEmailService,
	supportEmail string,
	log logger.ILogger,
) *EscalationService {
	return &EscalationService{
		subscriber:   sub,
		delivery:     delivery,
		emailService: emailService,
		supportEmail: supportEmail,
		logger:       log,
	}
}

// Start begins listening to the event bus.
func (s *EscalationService) Start() {
	err := s.subscriber.Subscribe("events."+events.TypeEscalationRaised, "escalation-feed-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("EscalationService", "Failed to start escalation subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EscalationService", "Escalation service started, listening to escalation events", nil)
}

func (s *EscalationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	alert := dto.EscalationAlert{
		SessionId:        stringField(payload, "session_id"),
		Question:         stringField(payload, "question"),
		Category:         stringField(payload, "category"),
		ContextRelevance: floatField(payload, "context_relevance"),
		RaisedAt:         time.Now(),
	}

	if alert.SessionId == "" {
		return fmt.Errorf("escalation event missing session_id")
	}

	s.logger.Info("EscalationService", "Escalation received", map[string]interface{}{
		"session_id": alert.SessionId,
		"category":   alert.Category,
	})

	s.delivery.Broadcast(alert)

	if s.emailService != nil && s.supportEmail != "" {
		if err := s.emailService.SendEscalationNotice(s.supportEmail, alert.SessionId, alert.Question, alert.Category); err != nil {
			// Agents already saw the alert over the socket, do not retry the event
			s.logger.Warn("EscalationService", "Escalation email failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func floatField(payload map[string]interface{}, key string) float64 {
	if v, ok := payload[key].(float64); ok {
		return v
	}
	return 0
}
