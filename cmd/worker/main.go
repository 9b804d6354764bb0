package main

import (
	"context"
	"log"

	"github.com/platewise/staffhub-backend/internal/aws"
	"github.com/platewise/staffhub-backend/internal/config"
	"github.com/platewise/staffhub-backend/internal/logging"
	"github.com/platewise/staffhub-backend/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	emailSvc, err := aws.NewSESService(context.Background(), cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	worker := queue.NewWorker(&cfg.Redis, emailSvc)

	log.Println("Starting queue worker...")
	if err := worker.Start(); err != nil {
		log.Fatalf("Worker failed to start: %v", err)
	}
}
