package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeminiProvider calls the Gemini generateContent REST endpoint.
type GeminiProvider struct {
	baseURL string
	client  *http.Client
}

func NewGeminiProvider(baseURL string, timeout time.Duration) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Model: req.Model}
	if req.APIKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("gemini api key missing")
	}
	payload, _ := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": req.Prompt}}},
		},
	})
	endpoint := g.baseURL + "/v1beta/models/" + url.PathEscape(req.Model) + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("gemini generate request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return GenerateResponse{}, info, &StatusError{Provider: "gemini", Status: resp.StatusCode, Body: string(body)}
	}
	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GenerateResponse{}, info, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		if parsed.PromptFeedback.BlockReason != "" {
			return GenerateResponse{}, info, fmt.Errorf("gemini blocked prompt: %s", parsed.PromptFeedback.BlockReason)
		}
		return GenerateResponse{}, info, fmt.Errorf("gemini returned no candidates")
	}
	var b strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return GenerateResponse{Text: b.String()}, info, nil
}
