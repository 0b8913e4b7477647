package dto

import "time"

// EscalationAlert is pushed to connected support agents when a conversation
// is handed off to a human.
type EscalationAlert struct {
	SessionId        string    `json:"session_id"`
	Question         string    `json:"question"`
	Category         string    `json:"category"`
	ContextRelevance float64   `json:"context_relevance"`
	RaisedAt         time.Time `json:"raised_at"`
}
