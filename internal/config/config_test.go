package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	"CHUNK_SIZE_TOKENS", "CHUNK_OVERLAP_TOKENS",
	"PROVIDER_TIMEOUT_SECONDS", "MAX_UPLOAD_MB", "PROVIDERS_FILE",
	"GEMINI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL",
	"GROQ_API_KEY", "GROQ_MODEL", "COHERE_API_KEY", "COHERE_MODEL",
	"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY", "CUSTOM_KEY",
	"PROVIDER_RATE_PER_MINUTE", "DOCUMENT_PATH", "WATCH_DOCUMENT",
}

// isolateEnv clears all config variables and moves into an empty directory so no .env file is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()

	originalEnv := make(map[string]string, len(envVars))
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	originalWd, _ := os.Getwd()
	_ = os.Chdir(t.TempDir())

	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name:     "defaults with no providers",
			setupEnv: func(t *testing.T) {},
			wantErr:  false,
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9000" &&
					cfg.DocumentPath == "" &&
					!cfg.WatchDocument &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text" &&
					cfg.ChunkSizeTokens == 500 &&
					cfg.ChunkOverlapTokens == 50 &&
					cfg.ProviderTimeout == 20*time.Second &&
					cfg.MaxUploadBytes == 32<<20 &&
					len(cfg.Providers) == 0
			},
		},
		{
			name: "providers follow fixed priority order",
			setupEnv: func(t *testing.T) {
				setEnv("COHERE_API_KEY", "c-key")
				setEnv("OPENAI_API_KEY", "o-key")
				setEnv("GEMINI_API_KEY", "g-key")
				setEnv("LLM_BASE_URL", "http://localhost:8080")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				if len(cfg.Providers) != 4 {
					return false
				}
				return cfg.Providers[0].Kind == KindGemini &&
					cfg.Providers[0].APIKey == "g-key" &&
					cfg.Providers[1].Kind == KindOpenAI &&
					cfg.Providers[2].Kind == KindCohere &&
					cfg.Providers[3].Kind == KindLocal &&
					cfg.Providers[3].BaseURL == "http://localhost:8080" &&
					cfg.Providers[3].APIKey == "dummy-key"
			},
		},
		{
			name: "model overrides",
			setupEnv: func(t *testing.T) {
				setEnv("GROQ_API_KEY", "k")
				setEnv("GROQ_MODEL", "mixtral")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return len(cfg.Providers) == 1 && cfg.Providers[0].Model == "mixtral"
			},
		},
		{
			name: "debug json logging",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_LEVEL", "DEBUG")
				setEnv("LOG_FORMAT", "json")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.LogLevel == slog.LevelDebug && cfg.LogFormat == "json"
			},
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "invalid CHUNK_SIZE_TOKENS",
			setupEnv: func(t *testing.T) {
				setEnv("CHUNK_SIZE_TOKENS", "big")
			},
			wantErr: true,
		},
		{
			name: "zero CHUNK_SIZE_TOKENS",
			setupEnv: func(t *testing.T) {
				setEnv("CHUNK_SIZE_TOKENS", "0")
			},
			wantErr: true,
		},
		{
			name: "negative CHUNK_OVERLAP_TOKENS",
			setupEnv: func(t *testing.T) {
				setEnv("CHUNK_OVERLAP_TOKENS", "-1")
			},
			wantErr: true,
		},
		{
			name: "timeout out of range",
			setupEnv: func(t *testing.T) {
				setEnv("PROVIDER_TIMEOUT_SECONDS", "600")
			},
			wantErr: true,
		},
		{
			name: "custom timeout and upload limit",
			setupEnv: func(t *testing.T) {
				setEnv("PROVIDER_TIMEOUT_SECONDS", "10")
				setEnv("MAX_UPLOAD_MB", "4")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.ProviderTimeout == 10*time.Second && cfg.MaxUploadBytes == 4<<20
			},
		},
		{
			name: "zero MAX_UPLOAD_MB",
			setupEnv: func(t *testing.T) {
				setEnv("MAX_UPLOAD_MB", "0")
			},
			wantErr: true,
		},
		{
			name: "rate limit applies to env providers",
			setupEnv: func(t *testing.T) {
				setEnv("GEMINI_API_KEY", "g")
				setEnv("PROVIDER_RATE_PER_MINUTE", "30")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return len(cfg.Providers) == 1 && cfg.Providers[0].RatePerMinute == 30
			},
		},
		{
			name: "negative PROVIDER_RATE_PER_MINUTE",
			setupEnv: func(t *testing.T) {
				setEnv("PROVIDER_RATE_PER_MINUTE", "-1")
			},
			wantErr: true,
		},
		{
			name: "document preload and watch",
			setupEnv: func(t *testing.T) {
				setEnv("DOCUMENT_PATH", "/srv/policy.pdf")
				setEnv("WATCH_DOCUMENT", "true")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.DocumentPath == "/srv/policy.pdf" && cfg.WatchDocument
			},
		},
		{
			name: "invalid WATCH_DOCUMENT",
			setupEnv: func(t *testing.T) {
				setEnv("WATCH_DOCUMENT", "sometimes")
			},
			wantErr: true,
		},
		{
			name: "missing providers file",
			setupEnv: func(t *testing.T) {
				setEnv("PROVIDERS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoadProvidersFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		setupEnv func()
		wantErr  bool
		want     []string
	}{
		{
			name:     "toml file",
			filename: "providers.toml",
			content: `[[providers]]
name = "throttled"
kind = "groq"
rate_per_minute = 20.0

[[providers]]
kind = "local"
base_url = "http://localhost:8080"
`,
			setupEnv: func() {
				setEnv("GROQ_API_KEY", "k")
			},
			want: []string{"throttled", "local"},
		},
		{
			name:     "negative rate",
			content:  "providers:\n  - kind: local\n    base_url: http://a\n    rate_per_minute: -5\n",
			setupEnv: func() {},
			wantErr:  true,
		},
		{
			name: "ordered list with custom key variable",
			content: `providers:
  - name: primary
    kind: openai
    model: gpt-4o
    api_key_env: CUSTOM_KEY
  - kind: local
    base_url: http://localhost:8080
`,
			setupEnv: func() {
				setEnv("CUSTOM_KEY", "secret")
			},
			want: []string{"primary", "local"},
		},
		{
			name: "entries without credentials are skipped",
			content: `providers:
  - kind: gemini
  - kind: groq
`,
			setupEnv: func() {
				setEnv("GROQ_API_KEY", "k")
			},
			want: []string{"groq"},
		},
		{
			name: "unknown kind",
			content: `providers:
  - kind: bard
`,
			setupEnv: func() {},
			wantErr:  true,
		},
		{
			name: "local without base url",
			content: `providers:
  - kind: local
`,
			setupEnv: func() {},
			wantErr:  true,
		},
		{
			name: "duplicate names",
			content: `providers:
  - kind: local
    base_url: http://a
  - kind: local
    base_url: http://b
`,
			setupEnv: func() {},
			wantErr:  true,
		},
		{
			name:     "malformed yaml",
			content:  "providers: [",
			setupEnv: func() {},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			tt.setupEnv()

			filename := tt.filename
			if filename == "" {
				filename = "providers.yaml"
			}
			path := filepath.Join(t.TempDir(), filename)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			providers, err := LoadProvidersFile(path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("LoadProvidersFile() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadProvidersFile() unexpected error: %v", err)
			}

			if len(providers) != len(tt.want) {
				t.Fatalf("LoadProvidersFile() returned %d providers, want %d", len(providers), len(tt.want))
			}
			for i, name := range tt.want {
				if providers[i].Name != name {
					t.Errorf("providers[%d].Name = %q, want %q", i, providers[i].Name, name)
				}
			}
		})
	}
}

func TestLoad_ProvidersFileReplacesEnvOrder(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "providers.yaml")
	content := "providers:\n  - kind: cohere\n  - kind: gemini\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	setEnv("PROVIDERS_FILE", path)
	setEnv("GEMINI_API_KEY", "g")
	setEnv("COHERE_API_KEY", "c")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0].Kind != KindCohere || cfg.Providers[1].Kind != KindGemini {
		t.Errorf("Load() providers = %+v, want cohere then gemini", cfg.Providers)
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}
