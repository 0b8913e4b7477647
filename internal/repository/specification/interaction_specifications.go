package specification

import (
	"time"

	"gorm.io/gorm"
)

// BySessionID filters interactions belonging to a chat session
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByCategory filters interactions by their classified category
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// SinceTime filters interactions created at or after a point in time
type SinceTime struct {
	After time.Time
}

func (s SinceTime) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.After)
}

// WithHumanAssistance filters interactions that were escalated to a human
type WithHumanAssistance struct{}

func (s WithHumanAssistance) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("human_assistance_required = ?", true)
}
