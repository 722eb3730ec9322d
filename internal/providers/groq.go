package providers

import "time"

// GroqProvider supports LLM generation via Groq's OpenAI-compatible API.
type GroqProvider struct {
	chatCompletionsProvider
}

func NewGroqProvider(baseURL string, timeout time.Duration) *GroqProvider {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai"
	}
	return &GroqProvider{chatCompletionsProvider: newChatCompletionsProvider("groq", baseURL, timeout)}
}
