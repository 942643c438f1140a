package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider kinds understood by the provider factory.
const (
	KindGemini = "gemini"
	KindOpenAI = "openai"
	KindGroq   = "groq"
	KindCohere = "cohere"
	KindLocal  = "local"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	// ChunkSizeTokens and ChunkOverlapTokens size the chunker windows (4 chars ≈ 1 token).
	ChunkSizeTokens    int
	ChunkOverlapTokens int

	ProviderTimeout time.Duration
	MaxUploadBytes  int64

	// ProvidersFile optionally points to a YAML or TOML provider list that replaces the env-derived order.
	ProvidersFile string
	// Providers is the ordered provider list; the first entry is the active provider.
	Providers []ProviderConfig

	// DocumentPath is a PDF loaded at startup; WatchDocument reloads it when the file changes.
	DocumentPath  string
	WatchDocument bool
}

// ProviderConfig describes one generative backend.
type ProviderConfig struct {
	Name      string `yaml:"name" toml:"name"`
	Kind      string `yaml:"kind" toml:"kind"`
	Model     string `yaml:"model" toml:"model"`
	APIKeyEnv string `yaml:"api_key_env" toml:"api_key_env"`
	BaseURL   string `yaml:"base_url" toml:"base_url"`

	// RatePerMinute throttles calls to this provider; zero means unlimited.
	RatePerMinute float64 `yaml:"rate_per_minute" toml:"rate_per_minute"`
	RateBurst     int     `yaml:"rate_burst" toml:"rate_burst"`

	// APIKey is resolved from APIKeyEnv (or the kind's default variable) at load time.
	APIKey string `yaml:"-" toml:"-"`
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates numeric fields.
// If a .env file exists in the current directory or a parent directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:       getEnv("API_PORT", "9000"),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
		ProvidersFile: getEnv("PROVIDERS_FILE", ""),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	if cfg.ChunkSizeTokens, err = getEnvInt("CHUNK_SIZE_TOKENS", 500); err != nil {
		return nil, err
	}
	if cfg.ChunkSizeTokens <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE_TOKENS must be greater than 0")
	}
	if cfg.ChunkOverlapTokens, err = getEnvInt("CHUNK_OVERLAP_TOKENS", 50); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlapTokens < 0 {
		return nil, fmt.Errorf("CHUNK_OVERLAP_TOKENS must not be negative")
	}

	timeoutSecs, err := getEnvInt("PROVIDER_TIMEOUT_SECONDS", 20)
	if err != nil {
		return nil, err
	}
	if timeoutSecs < 1 || timeoutSecs > 120 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be between 1 and 120, got %d", timeoutSecs)
	}
	cfg.ProviderTimeout = time.Duration(timeoutSecs) * time.Second

	maxUploadMB, err := getEnvInt("MAX_UPLOAD_MB", 32)
	if err != nil {
		return nil, err
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be greater than 0")
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20

	ratePerMinute, err := getEnvFloat("PROVIDER_RATE_PER_MINUTE", 0)
	if err != nil {
		return nil, err
	}
	if ratePerMinute < 0 {
		return nil, fmt.Errorf("PROVIDER_RATE_PER_MINUTE must not be negative")
	}

	if cfg.ProvidersFile != "" {
		providers, err := LoadProvidersFile(cfg.ProvidersFile)
		if err != nil {
			return nil, err
		}
		cfg.Providers = providers
	} else {
		cfg.Providers = providersFromEnv(ratePerMinute)
	}

	cfg.DocumentPath = getEnv("DOCUMENT_PATH", "")
	if cfg.WatchDocument, err = getEnvBool("WATCH_DOCUMENT", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// providersFromEnv builds the provider list in fixed priority order: Gemini, OpenAI, Groq, Cohere, local.
// Backends without credentials (or without a base URL, for local) are left out.
func providersFromEnv(ratePerMinute float64) []ProviderConfig {
	var providers []ProviderConfig

	candidates := []ProviderConfig{
		{Name: KindGemini, Kind: KindGemini, Model: getEnv("GEMINI_MODEL", "gemini-1.5-flash")},
		{Name: KindOpenAI, Kind: KindOpenAI, Model: getEnv("OPENAI_MODEL", "gpt-4o-mini")},
		{Name: KindGroq, Kind: KindGroq, Model: getEnv("GROQ_MODEL", "llama-3.1-8b-instant")},
		{Name: KindCohere, Kind: KindCohere, Model: getEnv("COHERE_MODEL", "command-r")},
	}
	for _, p := range candidates {
		p.APIKeyEnv = defaultKeyEnv(p.Kind)
		p.APIKey = os.Getenv(p.APIKeyEnv)
		if p.APIKey == "" {
			continue
		}
		p.RatePerMinute = ratePerMinute
		providers = append(providers, p)
	}

	if baseURL := getEnv("LLM_BASE_URL", ""); baseURL != "" {
		providers = append(providers, ProviderConfig{
			Name:          KindLocal,
			Kind:          KindLocal,
			Model:         getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
			BaseURL:       baseURL,
			APIKeyEnv:     "LLM_API_KEY",
			APIKey:        getEnv("LLM_API_KEY", "dummy-key"),
			RatePerMinute: ratePerMinute,
		})
	}

	return providers
}

// defaultKeyEnv returns the environment variable conventionally holding the API key for a kind.
func defaultKeyEnv(kind string) string {
	switch kind {
	case KindGemini:
		return "GEMINI_API_KEY"
	case KindOpenAI:
		return "OPENAI_API_KEY"
	case KindGroq:
		return "GROQ_API_KEY"
	case KindCohere:
		return "COHERE_API_KEY"
	case KindLocal:
		return "LLM_API_KEY"
	default:
		return ""
	}
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", value)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return value, nil
}

// getEnvBool gets a boolean environment variable or returns a default value.
func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return value, nil
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return value, nil
}
