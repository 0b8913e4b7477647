package contract

import (
	"context"

	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredKnowledgeChunk wraps KnowledgeChunk with its similarity score
type ScoredKnowledgeChunk struct {
	Chunk      *entity.KnowledgeChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type KnowledgeChunkRepository interface {
	Create(ctx context.Context, chunk *entity.KnowledgeChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySource(ctx context.Context, source string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the nearest chunks by cosine distance
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.KnowledgeChunk, error)
	// SearchSimilarWithScore returns chunks with their similarity scores, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredKnowledgeChunk, error)
}
