package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gradeflow/internal/credentials"

	"gopkg.in/yaml.v3"
)

const Version = "1.0.0"

type Config struct {
	APIAddr string `yaml:"api_addr"`
	LogMode string `yaml:"log_mode"`

	// LLMProviders is a "|" separated list; the first entry is the fallback
	// for models no other configured provider claims.
	LLMProviders   string `yaml:"llm_providers"`
	DefaultModel   string `yaml:"default_model"`
	GeminiBaseURL  string `yaml:"gemini_base_url"`
	OpenAIBaseURL  string `yaml:"openai_base_url"`
	GroqBaseURL    string `yaml:"groq_base_url"`
	LLMTimeoutSecs int    `yaml:"llm_timeout_secs"`

	SearchEndpoint    string `yaml:"search_endpoint"`
	SearchTimeoutSecs int    `yaml:"search_timeout_secs"`

	// Empty PostgresURL disables the call audit table.
	PostgresURL string `yaml:"postgres_url"`
	// Empty TemporalAddress disables the evaluation workflow endpoints.
	TemporalAddress   string `yaml:"temporal_address"`
	TemporalTaskQueue string `yaml:"temporal_task_queue"`

	// Credentials are the process-wide defaults merged under every request.
	Credentials credentials.Credentials `yaml:"credentials"`
}

// Load builds the configuration once at startup: defaults, then the optional
// YAML file named by GRADEFLOW_CONFIG_FILE, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("GRADEFLOW_CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		APIAddr:           ":8088",
		LogMode:           "dev",
		LLMProviders:      "gemini|openai|groq",
		DefaultModel:      "gemini-1.5-flash-8b",
		GeminiBaseURL:     "https://generativelanguage.googleapis.com",
		OpenAIBaseURL:     "https://api.openai.com",
		GroqBaseURL:       "https://api.groq.com/openai",
		LLMTimeoutSecs:    60,
		SearchTimeoutSecs: 10,
		TemporalTaskQueue: "gradeflow",
	}
}

func (c Config) Validate() error {
	if c.APIAddr == "" {
		return errors.New("api address is required")
	}
	if c.LLMTimeoutSecs <= 0 || c.SearchTimeoutSecs <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.DefaultModel == "" {
		return errors.New("default model is required")
	}
	return nil
}

func (c Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSecs) * time.Second
}

func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSecs) * time.Second
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.APIAddr = getenv("GRADEFLOW_API_ADDR", cfg.APIAddr)
	cfg.LogMode = getenv("GRADEFLOW_LOG_MODE", cfg.LogMode)
	cfg.LLMProviders = getenv("GRADEFLOW_LLM_PROVIDERS", cfg.LLMProviders)
	cfg.DefaultModel = getenv("GRADEFLOW_DEFAULT_MODEL", cfg.DefaultModel)
	cfg.GeminiBaseURL = getenv("GRADEFLOW_GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.OpenAIBaseURL = getenv("GRADEFLOW_OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.GroqBaseURL = getenv("GRADEFLOW_GROQ_BASE_URL", cfg.GroqBaseURL)
	cfg.LLMTimeoutSecs = getenvInt("GRADEFLOW_LLM_TIMEOUT_SECONDS", cfg.LLMTimeoutSecs)
	cfg.SearchEndpoint = getenv("GRADEFLOW_SEARCH_ENDPOINT", cfg.SearchEndpoint)
	cfg.SearchTimeoutSecs = getenvInt("GRADEFLOW_SEARCH_TIMEOUT_SECONDS", cfg.SearchTimeoutSecs)
	cfg.PostgresURL = getenv("GRADEFLOW_POSTGRES_URL", cfg.PostgresURL)
	cfg.TemporalAddress = getenv("GRADEFLOW_TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalTaskQueue = getenv("GRADEFLOW_TEMPORAL_TASK_QUEUE", cfg.TemporalTaskQueue)

	llmKey := getenv("GEMINI_API_KEY", cfg.Credentials.LanguageModelKey)
	cfg.Credentials.LanguageModelKey = getenv("GRADEFLOW_LLM_API_KEY", llmKey)
	cfg.Credentials.SearchAPIKey = getenv("GOOGLE_API_KEY", cfg.Credentials.SearchAPIKey)
	cfg.Credentials.SearchEngineID = getenv("GOOGLE_SEARCH_ENGINE_ID", cfg.Credentials.SearchEngineID)
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
