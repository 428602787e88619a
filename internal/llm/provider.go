package llm

import "context"

// Client is the capability the belief-evaluator adapters depend on:
// a text completion call and an embedding call. Soul Engine's core
// engine package never imports this interface — internal/llmevaluator,
// internal/service's embedding capture and cmd/api do, keeping the LLM
// client an external collaborator per spec §6.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}
