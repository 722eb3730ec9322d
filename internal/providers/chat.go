package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// chatCompletionsProvider speaks the OpenAI-compatible chat completions API.
type chatCompletionsProvider struct {
	name    string
	baseURL string
	client  *http.Client
}

func newChatCompletionsProvider(name, baseURL string, timeout time.Duration) chatCompletionsProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return chatCompletionsProvider{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c chatCompletionsProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: c.name, Model: req.Model}
	if req.APIKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("%s api key missing", c.name)
	}
	payload, _ := json.Marshal(map[string]any{
		"model": req.Model,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("build %s request: %w", c.name, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("%s generate request failed: %w", c.name, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return GenerateResponse{}, info, &StatusError{Provider: c.name, Status: resp.StatusCode, Body: string(body)}
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GenerateResponse{}, info, fmt.Errorf("decode %s response: %w", c.name, err)
	}
	if len(parsed.Choices) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("%s returned empty choices", c.name)
	}
	return GenerateResponse{Text: parsed.Choices[0].Message.Content}, info, nil
}
