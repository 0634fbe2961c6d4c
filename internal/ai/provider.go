// Package ai provides a unified interface to the inference providers used
// for enrichment lookups. Calls are synchronous one-shot requests — the
// enrichment loops process one row at a time, so there is no streaming
// surface.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/klytics/prospectkit/internal/config"
)

// Options configures a single inference call.
type Options struct {
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty"`

	// JSONOnly asks the provider to constrain output to a JSON object,
	// where the provider supports such a mode. Providers without one
	// ignore it; callers must still tolerate prose around the JSON.
	JSONOnly bool `json:"jsonOnly,omitempty"`

	// WebSearch enables the provider's web search tool, where available.
	// Lookups that need live company data set this; providers without a
	// search tool ignore it.
	WebSearch bool `json:"webSearch,omitempty"`
}

// Result holds the response from an inference call.
type Result struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"inputTokens,omitempty"`
	OutputTokens int    `json:"outputTokens,omitempty"`
}

// Provider is the interface all AI backends implement.
type Provider interface {
	// Infer sends a system prompt and one user message and returns the
	// complete response.
	Infer(ctx context.Context, system, user string, opts Options) (*Result, error)

	// Name returns the provider identifier.
	Name() string
}

// NewProvider creates a provider instance based on the provider name.
func NewProvider(name string, model string) (Provider, error) {
	switch strings.ToLower(name) {
	case "openai":
		apiKey, err := config.GetAPIKey("openai")
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(apiKey, model), nil
	case "anthropic":
		apiKey, err := config.GetAPIKey("anthropic")
		if err != nil {
			return nil, err
		}
		return NewAnthropicProvider(apiKey, model), nil
	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q — supported providers: openai, anthropic, ollama", name)
	}
}
