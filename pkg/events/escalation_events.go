package events

import "time"

const (
	TypeEscalationRaised = "ESCALATION_RAISED"
)

// NewEscalationRaised is emitted when the pipeline routes a question to a human.
func NewEscalationRaised(sessionId, question, category string, contextRelevance float64) Event {
	return BaseEvent{
		Type: TypeEscalationRaised,
		Data: map[string]interface{}{
			"session_id":        sessionId,
			"question":          question,
			"category":          category,
			"context_relevance": contextRelevance,
		},
		OccurredAt: time.Now(),
	}
}
