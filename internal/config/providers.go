package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// providersFile is the on-disk shape of PROVIDERS_FILE.
type providersFile struct {
	Providers []ProviderConfig `yaml:"providers" toml:"providers"`
}

// LoadProvidersFile reads an ordered provider list from a YAML file, or a TOML file when
// the name ends in .toml. Entries whose API key variable is unset are skipped, except for local servers.
func LoadProvidersFile(path string) ([]ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}

	var file providersFile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse providers file: %w", err)
	}

	providers := make([]ProviderConfig, 0, len(file.Providers))
	seen := make(map[string]struct{}, len(file.Providers))
	for i, p := range file.Providers {
		p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
		switch p.Kind {
		case KindGemini, KindOpenAI, KindGroq, KindCohere, KindLocal:
		default:
			return nil, fmt.Errorf("providers[%d]: unknown kind %q", i, p.Kind)
		}
		if p.Name == "" {
			p.Name = p.Kind
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("providers[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.Kind == KindLocal && p.BaseURL == "" {
			return nil, fmt.Errorf("providers[%d]: base_url is required for local providers", i)
		}
		if p.RatePerMinute < 0 || p.RateBurst < 0 {
			return nil, fmt.Errorf("providers[%d]: rate limits must not be negative", i)
		}
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = defaultKeyEnv(p.Kind)
		}
		p.APIKey = os.Getenv(p.APIKeyEnv)
		if p.APIKey == "" && p.Kind != KindLocal {
			continue
		}
		providers = append(providers, p)
	}

	return providers, nil
}
