package providers

import (
	"context"
	"strings"
)

// MockProvider returns canned output so the service can run without a model.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	text := "Mock response."
	switch strings.ToLower(req.Operation) {
	case "grade":
		text = "B"
	case "feedback":
		text = "The submission addresses the rubric in part. Strengthen the evidence and tighten the structure. This is deterministic mock output."
	}
	return GenerateResponse{Text: text}, ProviderInfo{Name: "mock", Model: req.Model}, nil
}
