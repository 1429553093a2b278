// Package llm provides the text generator used to draft application content.
// Two providers are supported: the generative-ai-go Gemini client and the unified genai SDK.
package llm

import "fmt"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini uses github.com/google/generative-ai-go.
	ProviderGemini Provider = "gemini"
	// ProviderGenAI uses google.golang.org/genai.
	ProviderGenAI Provider = "genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds the text generator configuration
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
}

// DefaultConfig returns the default configuration (Gemini, moderate temperature for prose)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultModel,
		Temperature: 0.7,
	}
}

// ModelName returns the configured model, falling back to DefaultModel.
func (c *Config) ModelName() string {
	if c == nil || c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// ParseProvider maps a configuration string to a Provider. Empty selects ProviderGemini.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case "", ProviderGemini:
		return ProviderGemini, nil
	case ProviderGenAI:
		return ProviderGenAI, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q", s)
	}
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}
