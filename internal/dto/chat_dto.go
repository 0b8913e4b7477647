package dto

import "time"

type ChatRequest struct {
	Question   string `json:"question" validate:"required"`
	SessionId  string `json:"session_id,omitempty"`
	WindowSize int    `json:"window_size,omitempty" validate:"omitempty,min=1"`

	// Filled from the request context by the controller, never from the body.
	UserAgent string `json:"-"`
	IpAddress string `json:"-"`
}

type ChatResponse struct {
	Answer               string  `json:"answer"`
	SessionId            string  `json:"session_id"`
	Category             string  `json:"category"`
	ContextRelevance     float64 `json:"context_relevance"`
	NeedsHumanAssistance bool    `json:"needs_human_assistance"`
	ResponseTimeMs       int64   `json:"response_time_ms"`
}

type SetWindowSizeRequest struct {
	WindowSize int `json:"window_size" validate:"required,min=1"`
}

type WindowSizeResponse struct {
	SessionId  string `json:"session_id"`
	WindowSize int    `json:"window_size"`
}

type DefaultWindowSizeResponse struct {
	WindowSize int `json:"window_size"`
}

type HistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionHistoryResponse struct {
	SessionId string           `json:"session_id"`
	Messages  []HistoryMessage `json:"messages"`
}
