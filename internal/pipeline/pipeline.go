// Package pipeline wires document extraction, claim extraction and claim
// verification into a single batch run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/verifact/internal/cache"
	"github.com/ppiankov/verifact/internal/config"
	"github.com/ppiankov/verifact/internal/document"
	"github.com/ppiankov/verifact/internal/extract"
	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/logging"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/search"
	"github.com/ppiankov/verifact/internal/verify"
	"github.com/ppiankov/verifact/internal/worker"
)

// ClaimSource turns document text into claims
type ClaimSource interface {
	Extract(ctx context.Context, documentText string) ([]model.Claim, error)
}

// Pipeline orchestrates the complete check process
type Pipeline struct {
	extractor    ClaimSource
	orchestrator *verify.Orchestrator
	renderer     *Renderer
	logger       logging.Logger
	config       *model.Config
}

// Options adjusts gateway construction
type Options struct {
	// NoCache disables the in-process search cache
	NoCache bool
}

// NewPipeline validates credentials and builds the gateways described by cfg.
// A *model.ConfigurationError is returned before anything touches the network.
func NewPipeline(cfg *model.Config, opts Options, logger logging.Logger) (*Pipeline, error) {
	if err := config.CredentialsFrom(cfg).Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("judgment provider: %w", err)
	}
	limiter := newLimiter(cfg.RateLimiting, provider.Name())
	provider = llm.RateLimited(provider, limiter)

	tavily, err := search.NewTavilyClient(cfg.Search, limiter)
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}
	var searcher search.Searcher = tavily
	if cfg.Cache.Enabled && !opts.NoCache {
		searcher = search.NewCachedSearcher(tavily, cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL), cfg.Cache.TTL)
	}

	verifier := verify.NewVerifier(searcher, provider, verify.OptionsFromConfig(cfg, logger))
	extractor := extract.NewClaimExtractor(provider, cfg.LLM, logger)

	logger.Debug("Pipeline ready", map[string]interface{}{
		"provider": provider.Name(),
		"model":    cfg.LLM.Model,
		"workers":  cfg.Concurrency.Workers,
		"cache":    cfg.Cache.Enabled && !opts.NoCache,
	})

	return NewPipelineWith(extractor, verifier, cfg, logger), nil
}

// newLimiter builds the shared limiter and applies the per-gateway overrides.
// Keys match the ones the search client and llm.RateLimited wait on.
func newLimiter(rl model.RateLimitConfig, providerName string) *worker.Limiter {
	limiter := worker.NewLimiter(rl.RequestsPerSecond, rl.BurstSize)
	if rl.SearchRequestsPerSecond > 0 {
		limiter.SetRate(search.LimiterKey, rl.SearchRequestsPerSecond, rl.SearchBurst)
	}
	if rl.JudgmentRequestsPerSecond > 0 {
		limiter.SetRate(llm.LimiterKey(providerName), rl.JudgmentRequestsPerSecond, rl.JudgmentBurst)
	}
	return limiter
}

// NewPipelineWith assembles a pipeline from prebuilt components
func NewPipelineWith(extractor ClaimSource, verifier verify.ClaimVerifier, cfg *model.Config, logger logging.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	logger = logging.OrNop(logger)

	return &Pipeline{
		extractor:    extractor,
		orchestrator: verify.NewOrchestrator(verifier, cfg.Concurrency.Workers, logger),
		renderer:     NewRenderer(cfg),
		logger:       logger,
		config:       cfg,
	}
}

// Renderer returns the renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Run extracts the text of a document and verifies every claim in it.
// Only configuration and extraction failures are returned as errors.
func (p *Pipeline) Run(ctx context.Context, name string, data []byte, progress func(verify.ProgressEvent)) (*model.Report, error) {
	kind := document.Detect(name, data)
	if kind == document.KindPDF {
		if info, err := document.Inspect(name, data); err == nil && !info.HasText {
			p.logger.Warn("First PDF page has no text layer", map[string]interface{}{
				"document": name,
				"pages":    info.Pages,
			})
		}
	}

	extraction, err := document.Extract(name, data)
	if len(extraction.SkippedPages) > 0 {
		p.logger.Warn("PDF pages could not be parsed and were skipped", map[string]interface{}{
			"document": name,
			"pages":    extraction.SkippedPages,
		})
	}
	if err != nil {
		return nil, &model.ExtractionError{Kind: model.ExtractionNoText, Err: err}
	}

	p.logger.Info("Document text extracted", map[string]interface{}{
		"document": name,
		"kind":     kind,
		"chars":    len([]rune(extraction.Text)),
	})
	return p.RunText(ctx, name, extraction.Text, progress)
}

// RunText verifies the claims found in already-extracted text
func (p *Pipeline) RunText(ctx context.Context, name string, text string, progress func(verify.ProgressEvent)) (*model.Report, error) {
	start := time.Now()

	claims, err := p.extractor.Extract(ctx, text)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			return nil, &model.ConfigurationError{MissingKeys: []string{llm.CredentialEnvVar(p.config.LLM.Provider)}}
		}
		return nil, err
	}

	verdicts := p.orchestrator.VerifyAllFunc(ctx, claims, progress)
	report := model.NewReport(name, verdicts)

	p.logger.Info("Document checked", map[string]interface{}{
		"document": name,
		"run_id":   report.RunID,
		"claims":   report.ClaimsFound,
		"duration": time.Since(start).String(),
	})
	return report, nil
}
