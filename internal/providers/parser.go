package providers

import "strings"

type ProviderRef struct {
	Raw  string
	Name string
}

// ParseProviderList splits "gemini|openai|mock" into refs, dropping blanks
// and duplicates. An empty list yields the mock provider.
func ParseProviderList(raw string) []ProviderRef {
	parts := strings.Split(raw, "|")
	out := make([]ProviderRef, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name := strings.ToLower(p)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, ProviderRef{Raw: p, Name: name})
	}
	if len(out) == 0 {
		out = append(out, ProviderRef{Raw: "mock", Name: "mock"})
	}
	return out
}
