package providers

import "time"

// OpenAIProvider uses the OpenAI chat completions REST API.
type OpenAIProvider struct {
	chatCompletionsProvider
}

func NewOpenAIProvider(baseURL string, timeout time.Duration) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &OpenAIProvider{chatCompletionsProvider: newChatCompletionsProvider("openai", baseURL, timeout)}
}
