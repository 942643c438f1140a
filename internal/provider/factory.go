package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/cohere"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"policyqa/internal/config"
	"policyqa/internal/contextutil"
	"policyqa/internal/llm"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// NewGenerator builds the backend described by cfg, throttled when cfg sets a rate.
func NewGenerator(ctx context.Context, cfg config.ProviderConfig) (Generator, error) {
	name := cfg.Name
	if name == "" {
		name = cfg.Kind
	}

	var (
		model llms.Model
		err   error
	)
	switch cfg.Kind {
	case config.KindGemini:
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case config.KindOpenAI:
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case config.KindGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		model, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithBaseURL(baseURL),
		)
	case config.KindCohere:
		opts := []cohere.Option{cohere.WithToken(cfg.APIKey), cohere.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, cohere.WithBaseURL(cfg.BaseURL))
		}
		model, err = cohere.New(opts...)
	case config.KindLocal:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("provider %s: base URL is required", name)
		}
		local := &localGenerator{name: name, client: llm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model)}
		return RateLimited(local, cfg.RatePerMinute, cfg.RateBurst), nil
	default:
		return nil, fmt.Errorf("provider %s: unknown kind %q", name, cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider %s: %w", cfg.Kind, name, err)
	}

	return RateLimited(&modelGenerator{name: name, model: model}, cfg.RatePerMinute, cfg.RateBurst), nil
}

// NewGenerators builds every configured backend in order.
// Backends that cannot be constructed are logged and left out of the chain.
func NewGenerators(ctx context.Context, cfgs []config.ProviderConfig) []Generator {
	logger := contextutil.LoggerFromContext(ctx)

	generators := make([]Generator, 0, len(cfgs))
	for _, cfg := range cfgs {
		g, err := NewGenerator(ctx, cfg)
		if err != nil {
			logger.WarnContext(ctx, "skipping provider", "provider", cfg.Name, "kind", cfg.Kind, "error", err)
			continue
		}
		logger.InfoContext(ctx, "provider configured",
			"provider", g.Name(),
			"kind", cfg.Kind,
			"model", cfg.Model,
			"rate_per_minute", cfg.RatePerMinute,
		)
		generators = append(generators, g)
	}
	return generators
}
