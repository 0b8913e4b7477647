package unitofwork

import (
	"context"

	"cargo-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
	InteractionRepository() contract.InteractionRepository
}
