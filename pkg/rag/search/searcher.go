package search

import (
	"context"
	"fmt"
	"log"

	"cargo-chatbot-be/internal/repository/unitofwork"
	"cargo-chatbot-be/pkg/embedding"
	"cargo-chatbot-be/pkg/store"
)

// Searcher runs vector search over the knowledge base
type Searcher struct {
	embeddingProvider embedding.EmbeddingProvider
	uowFactory        unitofwork.RepositoryFactory
	logger            *log.Logger
}

func NewSearcher(embeddingProvider embedding.EmbeddingProvider, uowFactory unitofwork.RepositoryFactory, logger *log.Logger) *Searcher {
	return &Searcher{
		embeddingProvider: embeddingProvider,
		uowFactory:        uowFactory,
		logger:            logger,
	}
}

// Search embeds the query and returns the k nearest knowledge chunks
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]store.Document, error) {
	embeddingRes, err := s.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scoredResults, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		k,
		0.0,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	s.logger.Printf("[DEBUG] Raw search results: %d chunks", len(scoredResults))

	docs := make([]store.Document, 0, len(scoredResults))
	for _, res := range scoredResults {
		docs = append(docs, store.Document{
			Content: res.Chunk.Content,
			Metadata: map[string]string{
				store.MetaSource:   res.Chunk.Source,
				store.MetaCategory: res.Chunk.Category,
			},
		})
	}

	return docs, nil
}
