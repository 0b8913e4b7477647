package analytics

import "time"

// Summary aggregates the interaction stream over a trailing period
type Summary struct {
	Period                    string         `json:"period"`
	TotalInteractions         int            `json:"totalInteractions"`
	AvgResponseTimeMs         float64        `json:"avgResponseTimeMs"`
	HumanAssistancePercentage float64        `json:"humanAssistancePercentage"`
	CategoryCounts            map[string]int `json:"categoryCounts"`
	Message                   string         `json:"message,omitempty"`
}

// SessionStats describes a single chat session's interactions
type SessionStats struct {
	SessionId          string     `json:"sessionId"`
	InteractionCount   int        `json:"interactionCount"`
	HasHumanAssistance bool       `json:"hasHumanAssistance"`
	AvgResponseTimeMs  float64    `json:"avgResponseTimeMs"`
	Categories         []string   `json:"categories"`
	FirstInteraction   *time.Time `json:"firstInteraction,omitempty"`
	LastInteraction    *time.Time `json:"lastInteraction,omitempty"`
}

// QualityMetrics measures how well-grounded the generated answers were
type QualityMetrics struct {
	Period              string  `json:"period"`
	TotalInteractions   int     `json:"totalInteractions"`
	AvgContextRelevance float64 `json:"avgContextRelevance"`
	LowRelevanceCount   int     `json:"lowRelevanceCount"`
	NoContextCount      int     `json:"noContextCount"`
	RefinementRate      float64 `json:"refinementRate"`
	HumanAssistanceRate float64 `json:"humanAssistanceRate"`
}

// CategoryCount pairs a category with an occurrence count
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// FollowUpPatterns describes how often users ask follow-up questions
type FollowUpPatterns struct {
	MultiTurnSessions  int             `json:"multiTurnSessions"`
	SingleTurnSessions int             `json:"singleTurnSessions"`
	FollowUpRate       float64         `json:"followUpRate"`
	AvgTurnsPerSession float64         `json:"avgTurnsPerSession"`
	TopCategories      []CategoryCount `json:"topCategories"`
}

// DailyActivity is one day-bucket of session activity
type DailyActivity struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Sessions int    `json:"sessions"`
}

// Retention measures users returning on more than one day
type Retention struct {
	Period            string          `json:"period"`
	TotalSessions     int             `json:"totalSessions"`
	ReturningSessions int             `json:"returningSessions"`
	RetentionRate     float64         `json:"retentionRate"`
	DailyActivity     []DailyActivity `json:"dailyActivity"`
}

// TopicStats aggregates activity for one category
type TopicStats struct {
	Category     string `json:"category"`
	Sessions     int    `json:"sessions"`
	Interactions int    `json:"interactions"`
}

// WindowBucket groups sessions by conversation length
type WindowBucket struct {
	Label               string  `json:"label"`
	MaxInteractions     int     `json:"maxInteractions"` // 0 means unbounded
	Sessions            int     `json:"sessions"`
	HumanAssistanceRate float64 `json:"humanAssistanceRate"`
	RecommendedWindow   int     `json:"recommendedWindow"`
}

// WindowEffectiveness relates conversation length to escalation outcomes
type WindowEffectiveness struct {
	Period  string         `json:"period"`
	Buckets []WindowBucket `json:"buckets"`
}
