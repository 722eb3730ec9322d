package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// GenerateRequest carries the caller's key so one provider instance can
// serve requests with different credentials.
type GenerateRequest struct {
	Operation string `json:"operation"`
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	APIKey    string `json:"-"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
