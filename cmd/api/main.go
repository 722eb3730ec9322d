package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gradeflow/internal/api"
	"gradeflow/internal/app"
	"gradeflow/internal/config"
	"gradeflow/internal/logger"
	"gradeflow/internal/workflows"

	"github.com/joho/godotenv"
	tclient "go.temporal.io/sdk/client"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	svc, err := app.Build(context.Background(), cfg, lg)
	if err != nil {
		lg.Fatal("build services", "error", err)
	}
	defer svc.Close()

	deps := api.Deps{Log: lg, Grader: svc.Grader, Checker: svc.Checker}
	if cfg.TemporalAddress != "" {
		tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
		if err != nil {
			lg.Fatal("dial temporal", "address", cfg.TemporalAddress, "error", err)
		}
		defer tc.Close()
		deps.Evaluations = workflows.NewClient(tc, cfg.TemporalTaskQueue)
	} else {
		lg.Warn("temporal address not set; evaluations disabled")
	}

	server := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           api.NewServer(cfg, deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		lg.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("shutdown", "error", err)
		}
	}()

	lg.Info("gradeflow api listening", "addr", cfg.APIAddr, "version", config.Version, "llm_providers", cfg.LLMProviders)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("server error", "error", err)
	}
}
