package main

import (
	"context"
	"log"

	"ai-assistant-be/internal/bootstrap"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/server"
	"ai-assistant-be/internal/tracer"
	"ai-assistant-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		log.Panicf("Unable to run migrations: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx := context.Background()

	// Queue consumers: memory commits and document ingestion.
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start consumer service: %v", err)
	}

	// Background expiry of stale pending proposals.
	container.Orchestrator.StartSweeper(ctx)

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
