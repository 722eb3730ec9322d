package models

import (
	"bytes"
	"encoding/json"
	"time"

	"gradeflow/internal/credentials"
	"gradeflow/internal/plagiarism"
)

// CredentialFields are the optional per-request keys shared by every tool
// request. GeminiAPIKey is the legacy name for LLMAPIKey.
type CredentialFields struct {
	LLMAPIKey      string `json:"llm_api_key,omitempty"`
	GeminiAPIKey   string `json:"gemini_api_key,omitempty"`
	GoogleAPIKey   string `json:"google_api_key,omitempty"`
	SearchEngineID string `json:"search_engine_id,omitempty"`
}

func (c CredentialFields) Empty() bool {
	return c == CredentialFields{}
}

func (c CredentialFields) Credentials() credentials.Credentials {
	llm := c.LLMAPIKey
	if llm == "" {
		llm = c.GeminiAPIKey
	}
	return credentials.Credentials{
		LanguageModelKey: llm,
		SearchAPIKey:     c.GoogleAPIKey,
		SearchEngineID:   c.SearchEngineID,
	}
}

type GradeRequest struct {
	Text   string  `json:"text"`
	Rubric string  `json:"rubric"`
	Model  *string `json:"model,omitempty"`
	CredentialFields
}

// ModelOr returns the requested model, or fallback when the field is absent
// or blank.
func (r GradeRequest) ModelOr(fallback string) string {
	return modelOr(r.Model, fallback)
}

type GradeResponse struct {
	Grade string `json:"grade"`
}

type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

type PlagiarismRequest struct {
	Text                string      `json:"text"`
	SimilarityThreshold OptionalInt `json:"similarity_threshold"`
	CredentialFields
}

// Threshold returns the requested threshold. Absent means the default; null
// and an explicit 0 both mean 0.
func (r PlagiarismRequest) Threshold() int {
	return thresholdOr(r.SimilarityThreshold)
}

type PlagiarismResponse struct {
	Results []plagiarism.Match `json:"results"`
}

// EvaluationRequest starts an evaluation. Evaluations run with the worker's
// credentials, so any credential field sent here is rejected.
type EvaluationRequest struct {
	Text                string      `json:"text"`
	Rubric              string      `json:"rubric"`
	Model               *string     `json:"model,omitempty"`
	SimilarityThreshold OptionalInt `json:"similarity_threshold"`
	CredentialFields
}

func (r EvaluationRequest) ModelOr(fallback string) string {
	return modelOr(r.Model, fallback)
}

func (r EvaluationRequest) Threshold() int {
	return thresholdOr(r.SimilarityThreshold)
}

type EvaluationAccepted struct {
	EvaluationID string `json:"evaluation_id"`
	RunID        string `json:"run_id"`
	Status       string `json:"status"`
}

type EvaluationStatus struct {
	EvaluationID string               `json:"evaluation_id"`
	Status       string               `json:"status"`
	StartedAt    *time.Time           `json:"started_at,omitempty"`
	ClosedAt     *time.Time           `json:"closed_at,omitempty"`
	Grade        string               `json:"grade,omitempty"`
	Feedback     string               `json:"feedback,omitempty"`
	Results      []plagiarism.Match   `json:"results,omitempty"`
	Errors       map[string]StepError `json:"errors,omitempty"`
	Steps        map[string]string    `json:"steps,omitempty"`
}

type StepError struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Banner struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

func modelOr(model *string, fallback string) string {
	if model == nil || *model == "" {
		return fallback
	}
	return *model
}

func thresholdOr(v OptionalInt) int {
	if !v.Set {
		return plagiarism.DefaultThreshold
	}
	if v.Value == nil {
		return 0
	}
	return *v.Value
}

// OptionalInt tells an absent field (Set false) from an explicit null (Set
// true, Value nil).
type OptionalInt struct {
	Set   bool
	Value *int
}

func IntValue(v int) OptionalInt {
	return OptionalInt{Set: true, Value: &v}
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
