// Package llm turns backtest reports into short plain-language
// assessments using a hosted model.
package llm

import "context"

// Provider defines the interface for LLM backends.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn completion request.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}
