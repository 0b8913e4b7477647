package main

import (
	"context"
	"log"
	"time"

	"cargo-chatbot-be/internal/bootstrap"
	"cargo-chatbot-be/internal/config"
	"cargo-chatbot-be/internal/model"
	"cargo-chatbot-be/internal/server"
	"cargo-chatbot-be/internal/tracer"
	"cargo-chatbot-be/pkg/database"
	"cargo-chatbot-be/pkg/rag/session"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.EnsureVectorExtension(gormDB); err != nil {
		log.Panicf("Unable to install pgvector extension: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.KnowledgeChunk{}, &model.Interaction{}); err != nil {
		log.Panicf("Migration failed: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Interaction Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Periodic eviction of idle conversations, on top of the store's own
	// lazy expiry.
	go func() {
		ticker := time.NewTicker(session.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			container.SessionManager.CleanupExpiredSessions()
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
