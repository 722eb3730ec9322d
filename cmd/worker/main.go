package main

import (
	"context"
	"log"

	"gradeflow/internal/activities"
	"gradeflow/internal/app"
	"gradeflow/internal/config"
	"gradeflow/internal/logger"
	"gradeflow/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.TemporalAddress == "" {
		log.Fatal("GRADEFLOW_TEMPORAL_ADDRESS is required for the worker")
	}
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		lg.Fatal("dial temporal", "address", cfg.TemporalAddress, "error", err)
	}
	defer c.Close()

	svc, err := app.Build(context.Background(), cfg, lg)
	if err != nil {
		lg.Fatal("build services", "error", err)
	}
	defer svc.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)
	activities.Register(w, activities.New(lg, svc.Grader, svc.Checker, cfg.Credentials))

	lg.Info("gradeflow worker listening", "address", cfg.TemporalAddress, "queue", cfg.TemporalTaskQueue, "llm_providers", cfg.LLMProviders)
	if err := w.Run(worker.InterruptCh()); err != nil {
		lg.Fatal("worker stopped", "error", err)
	}
}
