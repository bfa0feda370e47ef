// Package llm selects and constructs the text refinement provider.
package llm

import (
	"fmt"
	"strings"

	"github.com/andessalud/triaje/internal/llm/claude"
	"github.com/andessalud/triaje/internal/llm/openai"
	"github.com/andessalud/triaje/internal/triage"
)

// Config parameterizes the provider behind the text refinement
// collaborator.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewProvider builds the configured provider. "none" or an empty
// provider disables refinement and returns (nil, nil); the service
// then echoes patient text instead of calling out.
func NewProvider(cfg Config) (triage.Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "claude", "anthropic":
		return claude.New(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "openai":
		return openai.New(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: claude, openai, none)", cfg.Provider)
	}
}
