package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/pipeline"
	"github.com/ppiankov/verifact/internal/verify"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	quiet       bool
	workers     int
	llmProvider string
	llmModel    string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Fact-check every claim in a document",
	Long: `Check runs one verification batch over a document:
- Extract the document text (PDF, HTML or plain text)
- Extract verifiable factual claims with the language model
- Search the web for evidence on each claim
- Judge each claim against its evidence
- Print a summary and write JSON / Markdown reports

Requires TAVILY_API_KEY plus the key of the judgment provider
(OPENROUTER_API_KEY by default). Keys may be placed in a .env file.

Example:
  verifact check annual-report.pdf
  verifact check press-release.html --json report.json --md report.md
  verifact check notes.txt --provider anthropic --workers 2`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	checkCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the summary or progress")

	// Run flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall batch timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the search cache")
	checkCmd.Flags().IntVar(&workers, "workers", 0, "claims verified in parallel (1 = sequential)")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "provider", "", "judgment provider (openrouter, openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "model", "", "judgment model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, _, err := loadConfig(cmd, map[string]string{
		"concurrency.workers": "workers",
		"llm.provider":        "provider",
		"llm.model":           "model",
	})
	if err != nil {
		return err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.NewPipeline(cfg, pipeline.Options{NoCache: noCache}, logger)
	if err != nil {
		return describe(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !quiet {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", path)
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Provider: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
			fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Concurrency.Workers)
			fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled && !noCache)
		}
		fmt.Fprintln(os.Stderr)
	}

	var progress func(verify.ProgressEvent)
	if !quiet {
		progress = printProgress
	}

	report, err := p.Run(ctx, filepath.Base(path), data, progress)
	if err != nil {
		return describe(err)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "✓ Checked %d claims\n\n", report.ClaimsFound)
		p.Renderer().WriteSummary(os.Stdout, report)
	}

	if outJSON != "" {
		if err := p.Renderer().RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
	}
	if outMD != "" {
		if err := p.Renderer().RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
	}

	return nil
}

func printProgress(ev verify.ProgressEvent) {
	switch ev.Stage {
	case verify.StageStarted:
		fmt.Fprintf(os.Stderr, "  … [%d/%d] %s\n", ev.Index+1, ev.Total, ev.Preview)
	case verify.StageFinished:
		fmt.Fprintf(os.Stderr, "  %s [%d/%d done] %s\n", ev.Status.Emoji(), ev.Completed, ev.Total, ev.Preview)
	}
}

// describe turns fatal batch errors into user-facing messages
func describe(err error) error {
	var cfgErr *model.ConfigurationError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("configuration error: %w\nRun 'verifact config check' to diagnose", err)
	}
	var extErr *model.ExtractionError
	if errors.As(err, &extErr) {
		return fmt.Errorf("check failed: %w", err)
	}
	return err
}
