package credentials

import "strings"

// Credentials holds the keys needed to reach the language model and the
// search engine. A zero field means "not supplied".
type Credentials struct {
	LanguageModelKey string `json:"llm_api_key,omitempty" yaml:"llm_api_key"`
	SearchAPIKey     string `json:"google_api_key,omitempty" yaml:"google_api_key"`
	SearchEngineID   string `json:"search_engine_id,omitempty" yaml:"search_engine_id"`
}

// Resolve merges request-level credentials over the process defaults. A
// request value wins whenever it is non-blank.
func Resolve(request, defaults Credentials) Credentials {
	return Credentials{
		LanguageModelKey: pick(request.LanguageModelKey, defaults.LanguageModelKey),
		SearchAPIKey:     pick(request.SearchAPIKey, defaults.SearchAPIKey),
		SearchEngineID:   pick(request.SearchEngineID, defaults.SearchEngineID),
	}
}

func (c Credentials) HasSearch() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}

func pick(request, fallback string) string {
	if v := strings.TrimSpace(request); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}
