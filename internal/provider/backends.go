package provider

import (
	"context"

	"github.com/tmc/langchaingo/llms"

	"policyqa/internal/llm"
)

const (
	generationTemperature = 0.1
	generationMaxTokens   = 512
	systemPrompt          = "You answer questions about an organization's security and compliance policies. Be concise and factual."
)

// modelGenerator adapts a langchaingo model (Gemini, OpenAI, Groq, Cohere).
type modelGenerator struct {
	name  string
	model llms.Model
}

func (g *modelGenerator) Name() string { return g.name }

func (g *modelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(generationTemperature),
		llms.WithMaxTokens(generationMaxTokens),
	)
}

// localGenerator adapts an OpenAI-compatible local server.
type localGenerator struct {
	name   string
	client *llm.Client
}

func (g *localGenerator) Name() string { return g.name }

func (g *localGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
	return g.client.ChatWithMessages(ctx, messages, llm.ChatParams{
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
}
