// Package verify checks extracted claims against web evidence and fans a
// batch of claims out over a bounded worker pool.
package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/logging"
	"github.com/ppiankov/verifact/internal/metrics"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/search"
)

const (
	DefaultMaxResults  = 5
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.1
)

// Options tunes a Verifier. Zero values fall back to the defaults above;
// a nil Temperature means DefaultTemperature, so 0 can be requested.
type Options struct {
	MaxResults  int
	MaxTokens   int
	Temperature *float64
	Logger      logging.Logger
}

// OptionsFromConfig derives verifier options from the runtime config
func OptionsFromConfig(cfg *model.Config, logger logging.Logger) Options {
	temperature := cfg.LLM.Temperature
	return Options{
		MaxResults:  cfg.Search.MaxResults,
		MaxTokens:   cfg.LLM.VerificationMaxTokens,
		Temperature: &temperature,
		Logger:      logger,
	}
}

// Verifier checks one claim at a time. It is safe for concurrent use.
type Verifier struct {
	searcher    search.Searcher
	provider    llm.Provider
	validate    *validator.Validate
	logger      logging.Logger
	maxResults  int
	maxTokens   int
	temperature float64
}

// NewVerifier creates a verifier over the given gateways
func NewVerifier(searcher search.Searcher, provider llm.Provider, opts Options) *Verifier {
	v := &Verifier{
		searcher:    searcher,
		provider:    provider,
		validate:    newValidator(),
		logger:      logging.OrNop(opts.Logger),
		maxResults:  opts.MaxResults,
		maxTokens:   opts.MaxTokens,
		temperature: DefaultTemperature,
	}
	if opts.Temperature != nil && *opts.Temperature >= 0 {
		v.temperature = *opts.Temperature
	}
	if v.maxResults <= 0 {
		v.maxResults = DefaultMaxResults
	}
	if v.maxTokens <= 0 {
		v.maxTokens = DefaultMaxTokens
	}
	return v
}

// Verify produces exactly one verdict for claim. Every failure degrades to
// an Unverifiable verdict carrying the reason.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim) model.Verdict {
	log := v.logger.With(map[string]interface{}{"claim": claim.Preview(50)})

	if err := ctx.Err(); err != nil {
		return v.fail(log, "cancelled", claim, fmt.Sprintf("Verification cancelled: %v", err))
	}

	result, err := v.searcher.Search(ctx, claim.Query(), v.maxResults)
	if err != nil {
		return v.fail(log.WithError(err), "search", claim, fmt.Sprintf("Could not search web: %v", err))
	}

	evidence := BuildEvidence(result, MaxEvidenceSources)
	resp, err := v.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:      BuildPrompt(claim, evidence),
		MaxTokens:   v.maxTokens,
		Temperature: v.temperature,
	})
	if err != nil {
		stage := "judgment"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			stage = "cancelled"
		}
		return v.fail(log.WithError(err), stage, claim, fmt.Sprintf("Verification analysis failed: %v", err))
	}

	verdict, err := ParseVerdict(v.validate, resp.Text)
	if err != nil {
		log.Debug("Unparseable judgment", map[string]interface{}{"response": resp.Text})
		return v.fail(log.WithError(err), "parse", claim, fmt.Sprintf("Verification analysis failed: %v", err))
	}

	// The model is not trusted to echo these back
	verdict.Claim = claim.Text
	verdict.Category = claim.CategoryOrUnknown()

	if !verdict.Status.ExpectsCorrection() {
		verdict.CorrectInformation = ""
	} else if verdict.CorrectInformation == "" {
		log.Warn("Verdict has no correct information", map[string]interface{}{
			"status": string(verdict.Status),
		})
	}

	metrics.VerdictsTotal.WithLabelValues(string(verdict.Status)).Inc()
	log.Debug("Claim verified", map[string]interface{}{
		"status":     string(verdict.Status),
		"confidence": verdict.Confidence,
		"sources":    len(verdict.Sources),
	})
	return verdict
}

func (v *Verifier) fail(log logging.Logger, stage string, claim model.Claim, reason string) model.Verdict {
	metrics.VerificationFailures.WithLabelValues(stage).Inc()
	metrics.VerdictsTotal.WithLabelValues(string(model.StatusUnverifiable)).Inc()
	log.Warn("Claim degraded to unverifiable", map[string]interface{}{"stage": stage})
	return model.UnverifiableVerdict(claim, reason)
}
