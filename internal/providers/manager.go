package providers

import (
	"fmt"
	"strings"

	"gradeflow/internal/config"
)

type NamedLLMProvider struct {
	Ref      ProviderRef
	Provider LLMProvider
}

type Manager struct {
	llmProviders []NamedLLMProvider
}

func NewManager(cfg config.Config) (*Manager, error) {
	m := &Manager{}
	for _, ref := range ParseProviderList(cfg.LLMProviders) {
		p, err := buildProvider(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.llmProviders = append(m.llmProviders, NamedLLMProvider{Ref: ref, Provider: p})
	}
	return m, nil
}

// NewManagerWith wires already-built providers, first entry as fallback.
func NewManagerWith(named ...NamedLLMProvider) *Manager {
	return &Manager{llmProviders: named}
}

// ForModel picks the configured provider that serves model, falling back to
// the first configured provider.
func (m *Manager) ForModel(model string) (LLMProvider, ProviderRef) {
	if len(m.llmProviders) == 0 {
		return NewMockProvider(), ProviderRef{Raw: "mock", Name: "mock"}
	}
	if p, ref, ok := m.FindLLMProviderByName(providerNameForModel(model)); ok {
		return p, ref
	}
	return m.llmProviders[0].Provider, m.llmProviders[0].Ref
}

func (m *Manager) FindLLMProviderByName(name string) (LLMProvider, ProviderRef, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return nil, ProviderRef{}, false
	}
	for i := range m.llmProviders {
		if m.llmProviders[i].Ref.Name == target {
			return m.llmProviders[i].Provider, m.llmProviders[i].Ref, true
		}
	}
	return nil, ProviderRef{}, false
}

func (m *Manager) LLMCount() int {
	return len(m.llmProviders)
}

func (m *Manager) Names() []string {
	out := make([]string, 0, len(m.llmProviders))
	for _, p := range m.llmProviders {
		out = append(out, p.Ref.Name)
	}
	return out
}

func providerNameForModel(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "gemini"):
		return "gemini"
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return "openai"
	case strings.HasPrefix(m, "llama"), strings.HasPrefix(m, "mixtral"), strings.HasPrefix(m, "gemma"), strings.HasPrefix(m, "qwen"):
		return "groq"
	case strings.HasPrefix(m, "mock"):
		return "mock"
	default:
		return ""
	}
}

func buildProvider(ref ProviderRef, cfg config.Config) (LLMProvider, error) {
	switch ref.Name {
	case "mock":
		return NewMockProvider(), nil
	case "gemini":
		return NewGeminiProvider(cfg.GeminiBaseURL, cfg.LLMTimeout()), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.LLMTimeout()), nil
	case "groq":
		return NewGroqProvider(cfg.GroqBaseURL, cfg.LLMTimeout()), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Raw)
	}
}
