package contract

import (
	"context"

	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/repository/specification"
)

type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// DistinctSessionIds returns the session ids present in the matching interactions
	DistinctSessionIds(ctx context.Context, specs ...specification.Specification) ([]string, error)
}
