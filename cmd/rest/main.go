package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"auraflux-be/internal/bootstrap"
	"auraflux-be/internal/config"
	"auraflux-be/internal/server"
	"auraflux-be/internal/tracer"
	"auraflux-be/pkg/database"
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

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Pipeline Workers
	ctx := context.Background()
	if err := container.DialogueWorker.Consume(ctx); err != nil {
		log.Fatalf("Failed to start dialogue worker: %v", err)
	}
	if err := container.RefinementWorker.Consume(ctx); err != nil {
		log.Fatalf("Failed to start refinement worker: %v", err)
	}
	if err := container.StabilityWorker.Consume(ctx); err != nil {
		log.Fatalf("Failed to start stability worker: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
