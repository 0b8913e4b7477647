package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cargo-chatbot-be/internal/config"
	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/repository/unitofwork"
	"cargo-chatbot-be/pkg/database"
	"cargo-chatbot-be/pkg/embedding"
	"cargo-chatbot-be/pkg/utils"
)

// Seeds the knowledge base from a directory tree laid out as
// <dir>/<category>/<source file>. Re-running replaces existing chunks
// for each source file.
func main() {
	dir := flag.String("dir", "data/knowledge", "root directory of knowledge documents")
	chunkSize := flag.Int("chunk-size", 1500, "maximum characters per chunk")
	overlap := flag.Int("overlap", 300, "character overlap between adjacent chunks")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}
	if err := database.EnsureVectorExtension(db); err != nil {
		log.Fatalf("Error: Failed to install pgvector extension: %v", err)
	}

	embedder, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("Error: Failed to initialize embedding provider: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	ctx := context.Background()

	categories, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Error: Failed to read knowledge directory %s: %v", *dir, err)
	}

	totalChunks := 0
	for _, catDir := range categories {
		if !catDir.IsDir() {
			continue
		}
		category := catDir.Name()

		files, err := os.ReadDir(filepath.Join(*dir, category))
		if err != nil {
			log.Fatalf("Error: Failed to read category directory %s: %v", category, err)
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(file.Name()))
			if ext != ".md" && ext != ".txt" {
				continue
			}

			path := filepath.Join(*dir, category, file.Name())
			raw, err := os.ReadFile(path)
			if err != nil {
				log.Fatalf("Error: Failed to read %s: %v", path, err)
			}

			pieces := utils.SplitDocument(string(raw), *chunkSize, *overlap)
			if len(pieces) == 0 {
				log.Printf("[WARN] %s produced no chunks, skipping", path)
				continue
			}

			chunks := make([]*entity.KnowledgeChunk, 0, len(pieces))
			for i, piece := range pieces {
				resp, err := embedder.Generate(piece, embedding.TaskRetrievalDocument)
				if err != nil {
					log.Fatalf("Error: Failed to embed chunk %d of %s: %v", i, path, err)
				}
				chunks = append(chunks, &entity.KnowledgeChunk{
					Content:        piece,
					Source:         file.Name(),
					Category:       category,
					ChunkIndex:     i,
					EmbeddingValue: resp.Embedding.Values,
				})
			}

			uow := uowFactory.NewUnitOfWork(ctx)
			repo := uow.KnowledgeChunkRepository()
			if err := repo.DeleteBySource(ctx, file.Name()); err != nil {
				log.Fatalf("Error: Failed to clear existing chunks for %s: %v", file.Name(), err)
			}
			if err := repo.CreateBulk(ctx, chunks); err != nil {
				log.Fatalf("Error: Failed to insert chunks for %s: %v", file.Name(), err)
			}

			log.Printf("Seeded %s (%s): %d chunks", file.Name(), category, len(chunks))
			totalChunks += len(chunks)
		}
	}

	log.Printf("✅ Knowledge base seeding complete: %d chunks", totalChunks)
}
