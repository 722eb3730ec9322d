package grading

import (
	"context"
	"errors"
	"strings"
	"time"

	"gradeflow/internal/apperr"
	"gradeflow/internal/credentials"
	"gradeflow/internal/logger"
	"gradeflow/internal/prompts"
	"gradeflow/internal/providers"
	"gradeflow/internal/storage"
	"gradeflow/internal/util"
)

const (
	OperationGrade    = "grade"
	OperationFeedback = "feedback"
)

// ModelRouter resolves the provider that serves a model name.
type ModelRouter interface {
	ForModel(model string) (providers.LLMProvider, providers.ProviderRef)
}

type Request struct {
	Text   string
	Rubric string
	Model  string
}

type Service struct {
	log    *logger.Logger
	router ModelRouter
	audit  storage.CallRecorder
}

func NewService(log *logger.Logger, router ModelRouter, audit storage.CallRecorder) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if audit == nil {
		audit = storage.NopRecorder{}
	}
	return &Service{log: log.With("service", "GradingService"), router: router, audit: audit}
}

// Grade returns the model's trimmed answer as the grade token. The output is
// not checked against any grade scale.
func (s *Service) Grade(ctx context.Context, req Request, creds credentials.Credentials) (string, error) {
	if err := validate(OperationGrade, req, creds); err != nil {
		return "", err
	}
	return s.Invoke(ctx, OperationGrade, prompts.BuildGradingPrompt(req.Text, req.Rubric), req.Model, creds.LanguageModelKey)
}

// Feedback returns the model's trimmed prose.
func (s *Service) Feedback(ctx context.Context, req Request, creds credentials.Credentials) (string, error) {
	if err := validate(OperationFeedback, req, creds); err != nil {
		return "", err
	}
	return s.Invoke(ctx, OperationFeedback, prompts.BuildFeedbackPrompt(req.Text, req.Rubric), req.Model, creds.LanguageModelKey)
}

// Invoke sends one prompt to the model and returns its trimmed text.
func (s *Service) Invoke(ctx context.Context, operation, prompt, model, apiKey string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperr.Validation(operation, "prompt cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		return "", apperr.Validation(operation, "model cannot be empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return "", apperr.Configuration(operation, "language model api key not configured")
	}

	provider, ref := s.router.ForModel(model)
	started := time.Now()
	resp, info, err := provider.Generate(ctx, providers.GenerateRequest{
		Operation: operation,
		Model:     model,
		Prompt:    prompt,
		APIKey:    apiKey,
	})
	if info.Name == "" {
		info.Name = ref.Name
	}
	rec := storage.CallRecord{
		Operation: operation,
		Provider:  info.Name,
		Model:     model,
		InputHash: util.SHA256Hex([]byte(prompt)),
		Status:    "ok",
		LatencyMS: time.Since(started).Milliseconds(),
	}
	if err != nil {
		rec.Status = "failed"
		rec.ErrorKind = string(apperr.KindUpstream)
		rec.ErrorType = string(providers.ClassifyError(err))
		s.recordCall(ctx, rec)
		s.log.Warn("language model call failed", "operation", operation, "provider", info.Name, "model", model, "error_type", rec.ErrorType, "error", err)
		return "", upstreamError(operation, err)
	}
	s.recordCall(ctx, rec)
	return strings.TrimSpace(resp.Text), nil
}

func validate(operation string, req Request, creds credentials.Credentials) error {
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.Rubric) == "" {
		return apperr.Validation(operation, "text and rubric cannot be empty")
	}
	if strings.TrimSpace(req.Model) == "" {
		return apperr.Validation(operation, "model cannot be empty")
	}
	if strings.TrimSpace(creds.LanguageModelKey) == "" {
		return apperr.Configuration(operation, "language model api key not configured")
	}
	return nil
}

func upstreamError(operation string, err error) error {
	var se *providers.StatusError
	if errors.As(err, &se) {
		return apperr.Upstream(operation, se.Status, se.Body, err)
	}
	return apperr.Upstream(operation, 0, "", err)
}

func (s *Service) recordCall(ctx context.Context, rec storage.CallRecord) {
	if err := s.audit.RecordCall(ctx, rec); err != nil {
		s.log.Warn("audit record failed", "operation", rec.Operation, "error", err)
	}
}
