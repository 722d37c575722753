// Package extract turns document text into a list of verifiable claims using
// the judgment provider.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/logging"
	"github.com/ppiankov/verifact/internal/model"
)

const (
	// MaxDocumentChars bounds the document text embedded in the prompt
	MaxDocumentChars = 50000

	// TruncationMarker is appended when the document was cut
	TruncationMarker = "\n...[truncated]"

	DefaultMaxTokens   = 4000
	DefaultTemperature = 0.1
)

// ClaimExtractor extracts claims from plain document text
type ClaimExtractor struct {
	provider    llm.Provider
	logger      logging.Logger
	maxTokens   int
	temperature float64
}

// NewClaimExtractor creates a new claim extractor. logger may be nil.
func NewClaimExtractor(provider llm.Provider, config model.LLMConfig, logger logging.Logger) *ClaimExtractor {
	maxTokens := config.ExtractionMaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := config.Temperature
	if temperature < 0 {
		temperature = DefaultTemperature
	}

	return &ClaimExtractor{
		provider:    provider,
		logger:      logging.OrNop(logger),
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Extract asks the model for every verifiable claim in documentText.
// A missing credential is returned unwrapped; every other failure is a
// *model.ExtractionError.
func (e *ClaimExtractor) Extract(ctx context.Context, documentText string) ([]model.Claim, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, &model.ExtractionError{Kind: model.ExtractionNoText, Err: errors.New("document text is empty")}
	}

	text, truncated := Truncate(documentText, MaxDocumentChars)
	if truncated {
		e.logger.Warn("Document truncated for claim extraction", map[string]interface{}{
			"limit": MaxDocumentChars,
		})
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:      BuildPrompt(text),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			return nil, err
		}
		return nil, &model.ExtractionError{Kind: model.ExtractionCompletion, Err: err}
	}

	claims, err := ParseClaims(resp.Text)
	if err != nil {
		e.logger.Debug("Unparseable extraction response", map[string]interface{}{
			"response": preview(resp.Text, 300),
		})
		return nil, err
	}

	kept := claims[:0]
	for i, c := range claims {
		c.Text = strings.TrimSpace(c.Text)
		if c.Text == "" {
			e.logger.Warn("Dropping claim with empty text", map[string]interface{}{"index": i})
			continue
		}
		if !c.Category.Known() {
			e.logger.Warn("Claim has unexpected category", map[string]interface{}{
				"index":    i,
				"category": string(c.Category),
			})
		}
		kept = append(kept, c)
	}

	e.logger.Info("Claims extracted", map[string]interface{}{
		"count":     len(kept),
		"truncated": truncated,
	})
	return kept, nil
}

// Truncate cuts text to limit runes and appends TruncationMarker if it was longer
func Truncate(text string, limit int) (string, bool) {
	if len(text) <= limit {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	return string(runes[:limit]) + TruncationMarker, true
}

// ParseClaims decodes a model response into claims. A top-level object is
// treated as a single-claim array.
func ParseClaims(response string) ([]model.Claim, error) {
	payload := bytes.TrimSpace([]byte(llm.StripCodeFence(response)))
	if len(payload) == 0 {
		return nil, parseErr(errors.New("empty response"))
	}

	switch payload[0] {
	case '[':
		var claims []model.Claim
		if err := json.Unmarshal(payload, &claims); err != nil {
			return nil, parseErr(err)
		}
		if claims == nil {
			claims = []model.Claim{}
		}
		return claims, nil

	case '{':
		var claim model.Claim
		if err := json.Unmarshal(payload, &claim); err != nil {
			return nil, parseErr(err)
		}
		return []model.Claim{claim}, nil

	default:
		if !json.Valid(payload) {
			var v interface{}
			return nil, parseErr(json.Unmarshal(payload, &v))
		}
		return nil, parseErr(fmt.Errorf("expected a JSON array or object, got %s", preview(string(payload), 40)))
	}
}

func parseErr(err error) error {
	return &model.ExtractionError{Kind: model.ExtractionParse, Err: err}
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
