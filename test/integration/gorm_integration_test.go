package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/repository/specification"
	"cargo-chatbot-be/internal/repository/unitofwork"
	"cargo-chatbot-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.KnowledgeChunkRepository())
	assert.NotNil(t, uow.InteractionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check KnowledgeChunk Repository", func(t *testing.T) {
		count, err := uow.KnowledgeChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("KnowledgeChunk count: %d", count)
	})

	t.Run("Check Interaction Repository", func(t *testing.T) {
		count, err := uow.InteractionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Interaction count: %d", count)
	})
}

func TestInteractionRoundTrip(t *testing.T) {
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)
	repo := uow.InteractionRepository()

	interaction := &entity.Interaction{
		SessionId:        "integration-test-session",
		Question:         "What is the transit time for rail freight?",
		Answer:           "Transit time depends on the corridor.",
		Category:         "Rail Logistics",
		ContextRelevance: 0.82,
		ContextSources:   []string{"rail_overview.md"},
		ResponseTimeMs:   120,
	}
	err = repo.Create(ctx, interaction)
	assert.NoError(t, err)

	found, err := repo.FindAll(ctx, specification.BySessionID{SessionID: "integration-test-session"})
	assert.NoError(t, err)
	assert.NotEmpty(t, found)
	assert.Equal(t, "Rail Logistics", found[0].Category)
}
