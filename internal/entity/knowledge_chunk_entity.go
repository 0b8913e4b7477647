package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeChunk struct {
	Id             uuid.UUID
	Content        string
	Source         string
	Category       string
	ChunkIndex     int
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
