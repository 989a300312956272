package domain

import "context"

// GenerationOptions tune a single generation call.
type GenerationOptions struct {
	// Model is the generation model identifier.
	Model string
	// Temperature is the sampling temperature in [0,1].
	Temperature float64
	// MaxTokens bounds the completion length.
	MaxTokens int
}

// Generator defines the capability to send a prompt to the remote language
// model and receive the first generated completion's text.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}
