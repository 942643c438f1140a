// Package provider ranks chunks and synthesizes answers through an ordered chain of generative backends.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"policyqa/internal/contextutil"
	"policyqa/internal/indexer"
)

// DefaultTimeout bounds a single provider call when the adapter is built without one.
const DefaultTimeout = 20 * time.Second

// Generator is one generative backend: given a prompt, return text or fail.
//
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks policyqa/internal/provider Generator
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Synthesis is the outcome of answer synthesis.
type Synthesis struct {
	Text string
	// Provider is the backend that produced Text; empty when Fallback is set.
	Provider string
	// Fallback reports that Text is the raw-context excerpt.
	Fallback bool
}

// Adapter tries its generators in order. The first one is the active provider;
// later ones are only consulted when an earlier one fails.
type Adapter struct {
	generators []Generator
	timeout    time.Duration
}

// NewAdapter creates an adapter over generators in priority order.
// A non-positive timeout falls back to DefaultTimeout.
func NewAdapter(timeout time.Duration, generators ...Generator) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	gens := make([]Generator, 0, len(generators))
	for _, g := range generators {
		if g != nil {
			gens = append(gens, g)
		}
	}
	return &Adapter{generators: gens, timeout: timeout}
}

// Available reports whether any provider is configured.
func (a *Adapter) Available() bool {
	return a != nil && len(a.generators) > 0
}

// Active returns the name of the primary provider, or "" when none is configured.
func (a *Adapter) Active() string {
	if !a.Available() {
		return ""
	}
	return a.generators[0].Name()
}

// Names lists the configured providers in priority order.
func (a *Adapter) Names() []string {
	if a == nil {
		return nil
	}
	names := make([]string, len(a.generators))
	for i, g := range a.generators {
		names[i] = g.Name()
	}
	return names
}

// RankChunk asks the providers which of the first MaxRankCandidates chunks best answers question.
// It returns a 0-based index into chunks and the provider that chose it.
// On failure the error joins one *Error per provider tried.
func (a *Adapter) RankChunk(ctx context.Context, question string, chunks []indexer.Chunk) (int, string, error) {
	if !a.Available() {
		return -1, "", &Error{Provider: "none", Kind: ErrProviderUnavailable}
	}
	if len(chunks) == 0 {
		return -1, "", &Error{Provider: "none", Kind: ErrProviderResponseUnparseable, Err: errors.New("no candidate chunks")}
	}

	candidates := chunks
	if len(candidates) > MaxRankCandidates {
		candidates = candidates[:MaxRankCandidates]
	}
	prompt := buildRankPrompt(question, candidates)
	logger := contextutil.LoggerFromContext(ctx)

	var errs []error
	for _, g := range a.generators {
		raw, err := a.call(ctx, g, prompt)
		if err == nil {
			var idx int
			if idx, err = parseRank(raw, len(candidates)); err == nil {
				logger.DebugContext(ctx, "provider ranked chunk", "provider", g.Name(), "index", idx, "page", candidates[idx].Page)
				return idx, g.Name(), nil
			}
			err = unparseable(g.Name(), err)
		}
		logger.WarnContext(ctx, "provider ranking failed, trying next", "provider", g.Name(), "error", err)
		errs = append(errs, err)
	}
	return -1, "", errors.Join(errs...)
}

// Synthesize asks the providers for a concise answer to question grounded in passage.
// Failed calls and blank answers fall through to the next provider; when none succeed
// the answer is the raw-context excerpt. It never fails.
func (a *Adapter) Synthesize(ctx context.Context, question, passage string) Synthesis {
	if !a.Available() {
		return Synthesis{Text: Excerpt(passage), Fallback: true}
	}

	prompt := buildSynthesisPrompt(question, passage)
	logger := contextutil.LoggerFromContext(ctx)

	for _, g := range a.generators {
		raw, err := a.call(ctx, g, prompt)
		if err == nil {
			if answer := PlainText(raw); strings.TrimSpace(answer) != "" {
				return Synthesis{Text: answer, Provider: g.Name()}
			}
			err = unparseable(g.Name(), errors.New("empty answer"))
		}
		logger.WarnContext(ctx, "provider synthesis failed, trying next", "provider", g.Name(), "error", err)
	}

	logger.InfoContext(ctx, "all providers failed, answering with context excerpt")
	return Synthesis{Text: Excerpt(passage), Fallback: true}
}

// call runs one generator under the per-call timeout. Panics become call failures.
func (a *Adapter) call(ctx context.Context, g Generator, prompt string) (out string, err error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = callFailed(g.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	out, err = g.Generate(ctx, prompt)
	if err != nil {
		return "", callFailed(g.Name(), err)
	}
	if ctx.Err() != nil {
		return "", callFailed(g.Name(), ctx.Err())
	}
	return out, nil
}
