package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderOpenRouter, "":
		return NewOpenRouterProvider(config)

	case ProviderOpenAI:
		return NewOpenAIProvider(config)

	case ProviderAnthropic, "claude":
		return NewAnthropicProvider(config)

	case ProviderOllama:
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openrouter, openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.VerificationMaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
	}
}

// CredentialEnvVar names the environment variable holding the key for a
// provider, or "" when the provider needs none
func CredentialEnvVar(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderOpenRouter, "":
		return "OPENROUTER_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic, "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
