package llm

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/verifact/internal/util"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"

	// OpenRouterBaseURL is the OpenAI-compatible OpenRouter endpoint
	OpenRouterBaseURL      = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "google/gemma-2-9b-it"
)

// OpenAIProvider implements the Provider interface for OpenAI and any
// OpenAI-compatible endpoint such as OpenRouter
type OpenAIProvider struct {
	name   string
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a provider against the OpenAI API
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	return newOpenAICompatible(ProviderOpenAI, config)
}

// NewOpenRouterProvider creates a provider against OpenRouter
func NewOpenRouterProvider(config Config) (*OpenAIProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = OpenRouterBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultOpenRouterModel
	}
	return newOpenAICompatible(ProviderOpenRouter, config)
}

func newOpenAICompatible(name string, config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, missingKey(name)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}
	clientConfig.HTTPClient = util.NewHTTPClient(config.Timeout, 60*time.Second, config.HTTPProxy, config.HTTPSProxy)

	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Listing models is the cheapest authenticated call
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s API check failed: %v\n", p.name, err)
		return false
	}
	return true
}

// Complete runs a chat completion with a single user message
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	req, err := resolve(req, p.config, openai.GPT4oMini)
	if err != nil {
		return nil, completionErr(p.name, err)
	}

	// go-openai drops a zero temperature from the request body
	temperature := float32(req.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, completionErr(p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, completionErr(p.name, fmt.Errorf("no choices in response"))
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}

	return &CompletionResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
