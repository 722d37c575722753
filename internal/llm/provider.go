package llm

import (
	"context"
	"fmt"
)

// Provider is the judgment gateway: a single-turn text completion service
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the model's raw text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one completion
type CompletionRequest struct {
	// Prompt is the user message
	Prompt string

	// System is an optional system instruction
	System string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature should be low so verdicts are reproducible
	Temperature float64
}

// CompletionResponse contains the model output
type CompletionResponse struct {
	// Text is the trimmed completion text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openrouter", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenRouter/OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens is used when a request does not set its own
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderOpenRouter,
		Model:     DefaultOpenRouterModel,
		Timeout:   60,
		MaxTokens: 1000,
	}
}

// defaultSystemPrompt frames every judgment call
const defaultSystemPrompt = "You are a meticulous fact-checking assistant. Always answer with the exact JSON structure requested and nothing else."

// resolve fills request fields from provider config
func resolve(req CompletionRequest, config Config, fallbackModel string) (CompletionRequest, error) {
	if req.Prompt == "" {
		return req, fmt.Errorf("prompt is required")
	}
	if req.Model == "" {
		req.Model = config.Model
	}
	if req.Model == "" {
		req.Model = fallbackModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = config.MaxTokens
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 1000
	}
	if req.System == "" {
		req.System = defaultSystemPrompt
	}
	return req, nil
}
