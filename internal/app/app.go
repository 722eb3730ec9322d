package app

import (
	"context"
	"fmt"
	"time"

	"gradeflow/internal/config"
	"gradeflow/internal/grading"
	"gradeflow/internal/logger"
	"gradeflow/internal/plagiarism"
	"gradeflow/internal/providers"
	"gradeflow/internal/search"
	"gradeflow/internal/storage"
)

// Services are the request-scoped pipelines shared by the API and the worker.
type Services struct {
	DB      *storage.DB
	Grader  *grading.Service
	Checker *plagiarism.Pipeline
}

func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

// Build wires providers, the search engine and the optional call audit store.
func Build(ctx context.Context, cfg config.Config, log *logger.Logger) (*Services, error) {
	out := &Services{}
	var audit storage.CallRecorder = storage.NopRecorder{}
	if cfg.PostgresURL != "" {
		dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		db, err := storage.NewDB(dbCtx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(dbCtx); err != nil {
			db.Close()
			return nil, err
		}
		out.DB = db
		audit = storage.NewCallAuditRepo(db.Pool)
		log.Info("call audit enabled")
	}

	pm, err := providers.NewManager(cfg)
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("build providers: %w", err)
	}
	log.Info("language model providers", "providers", pm.Names(), "default_model", cfg.DefaultModel)

	out.Grader = grading.NewService(log, pm, audit)
	out.Checker = plagiarism.NewPipeline(log, search.NewGoogleEngine(cfg.SearchEndpoint, cfg.SearchTimeout()), audit)
	return out, nil
}
