package entity

import (
	"time"

	"github.com/google/uuid"
)

type Interaction struct {
	Id                      uuid.UUID
	SessionId               string
	Question                string
	Answer                  string
	Category                string
	ContextRelevance        float64
	ContextSources          []string
	HumanAssistanceRequired bool
	RefinementPerformed     bool
	ResponseTimeMs          int64
	UserAgent               string
	IpAddress               string
	CreatedAt               time.Time
}
