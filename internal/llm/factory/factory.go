package factory

import (
	"fmt"

	"github.com/quantkit/crossbt/internal/config"
	"github.com/quantkit/crossbt/internal/llm"
	"github.com/quantkit/crossbt/internal/llm/claude"
	"github.com/quantkit/crossbt/internal/llm/openai"
)

// New creates the configured LLM provider.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "":
		return nil, fmt.Errorf("no llm provider configured")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
