package domain

import "context"

// LLMClient defines the capability to send prompts to a generation model and
// receive textual responses.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (*LLMResponse, error)
	Version() string
}

// LLMResponse carries the model output and whether the generation finished.
type LLMResponse struct {
	Text string
	Done bool
}
