package provider

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimited throttles calls to a generator with a token bucket.
type rateLimited struct {
	Generator
	limiter *rate.Limiter
}

// RateLimited wraps g so it is called at most perMinute times per minute, with bursts up to burst.
// A non-positive perMinute returns g unchanged.
func RateLimited(g Generator, perMinute float64, burst int) Generator {
	if perMinute <= 0 || g == nil {
		return g
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{
		Generator: g,
		limiter:   rate.NewLimiter(rate.Limit(perMinute/60), burst),
	}
}

// Generate waits for a token, bounded by ctx, then calls the wrapped generator.
func (r *rateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Generator.Generate(ctx, prompt)
}
