package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Interaction struct {
	Id                      uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId               string                      `gorm:"type:varchar(64);index"`
	Question                string                      `gorm:"type:text"`
	Answer                  string                      `gorm:"type:text"`
	Category                string                      `gorm:"type:varchar(64);index"`
	ContextRelevance        float64                     `gorm:"type:double precision"`
	ContextSources          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	HumanAssistanceRequired bool                        `gorm:"index"`
	RefinementPerformed     bool
	ResponseTimeMs          int64
	UserAgent               string    `gorm:"type:varchar(255)"`
	IpAddress               string    `gorm:"type:varchar(64)"`
	CreatedAt               time.Time `gorm:"autoCreateTime;index"`
}

func (Interaction) TableName() string {
	return "interactions"
}
