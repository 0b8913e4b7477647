package dto

import "time"

// InteractionMessage is the payload published to the analytics topic after
// each completed pipeline invocation.
type InteractionMessage struct {
	SessionId               string    `json:"session_id"`
	Question                string    `json:"question"`
	Answer                  string    `json:"answer"`
	Category                string    `json:"category"`
	ContextRelevance        float64   `json:"context_relevance"`
	ContextSources          []string  `json:"context_sources"`
	HumanAssistanceRequired bool      `json:"human_assistance_required"`
	RefinementPerformed     bool      `json:"refinement_performed"`
	ResponseTimeMs          int64     `json:"response_time_ms"`
	UserAgent               string    `json:"user_agent,omitempty"`
	IpAddress               string    `json:"ip_address,omitempty"`
	Timestamp               time.Time `json:"timestamp"`
}

type RecommendedWindowResponse struct {
	SessionId             string `json:"session_id"`
	InteractionCount      int    `json:"interaction_count"`
	HasHumanAssistance    bool   `json:"has_human_assistance"`
	RecommendedWindowSize int    `json:"recommended_window_size"`
}
