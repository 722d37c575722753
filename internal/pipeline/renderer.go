package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/score"
	"github.com/ppiankov/verifact/internal/validate"
)

const rule = "═══════════════════════════════════════════════════════════"

// Renderer writes reports as JSON, Markdown and a terminal summary.
// Verdicts are shown most severe first; JSON keeps claim order.
type Renderer struct {
	classifier    *validate.AuthorityClassifier
	scorer        *score.Scorer
	maxSources    int
	includeFooter bool
}

// NewRenderer creates a renderer from output and authority settings
func NewRenderer(cfg *model.Config) *Renderer {
	maxSources := cfg.Output.MaxSources
	if maxSources <= 0 {
		maxSources = 3
	}
	classifier := validate.NewAuthorityClassifier(&cfg.Authority)
	return &Renderer{
		classifier:    classifier,
		scorer:        score.NewScorer(classifier),
		maxSources:    maxSources,
		includeFooter: cfg.Output.IncludeFooter,
	}
}

// WriteJSON writes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// RenderJSON writes the report as JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, report) })
}

// RenderMarkdown writes the report as Markdown to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteMarkdown(w, report) })
}

// WriteMarkdown writes the report as a Markdown document
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fact-Check Report: %s\n\n", report.Document)
	fmt.Fprintf(&b, "- **Run ID:** `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- **Generated:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Claims checked:** %d\n\n", report.ClaimsFound)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Status | Count |\n|---|---|\n")
	for _, st := range model.Statuses() {
		fmt.Fprintf(&b, "| %s %s | %d |\n", st.Emoji(), st, countFor(report.Summary, st))
	}
	b.WriteString("\n")

	assessment := r.scorer.Calculate(report.Verdicts)
	b.WriteString("## Diagnostics\n\n")
	for _, sig := range assessment.Signals {
		fmt.Fprintf(&b, "- %s **%s**: %s\n", severityBadge(sig.Severity), sig.Type, sig.Description)
	}
	b.WriteString("\n")

	if len(report.Verdicts) == 0 {
		b.WriteString("_No verifiable claims were found in this document._\n")
	} else {
		b.WriteString("## Findings\n\n")
		for _, v := range model.SortBySeverity(report.Verdicts) {
			fmt.Fprintf(&b, "### %s %s: %s\n\n", v.Status.Emoji(), v.Status, v.Claim)
			fmt.Fprintf(&b, "- **Category:** %s\n", v.Category)
			fmt.Fprintf(&b, "- **Confidence:** %s\n", percent(v.Confidence))
			if v.Explanation != "" {
				fmt.Fprintf(&b, "- **Explanation:** %s\n", v.Explanation)
			}
			if v.Status.ExpectsCorrection() && v.CorrectInformation != "" {
				fmt.Fprintf(&b, "- **Correct information:** %s\n", v.CorrectInformation)
			}
			if cited := r.classifier.Annotate(v.Sources, r.maxSources); len(cited) > 0 {
				b.WriteString("- **Sources:**\n")
				for _, c := range cited {
					label := c.Host
					if label == "" {
						label = c.URL
					}
					fmt.Fprintf(&b, "  - [%s](%s) (%s)\n", label, c.URL, c.Tier)
				}
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Verdicts are produced by a language model from live web search results. Check the cited sources before relying on them._\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary prints a terminal summary of the report
func (r *Renderer) WriteSummary(w io.Writer, report *model.Report) {
	s := report.Summary

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Fact-Check: %s\n", report.Document)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Claims checked: %d\n", s.Total)
	fmt.Fprintf(w, "  %s Verified: %d   %s Inaccurate: %d   %s False: %d   %s Unverifiable: %d\n",
		model.StatusVerified.Emoji(), s.Verified,
		model.StatusInaccurate.Emoji(), s.Inaccurate,
		model.StatusFalse.Emoji(), s.False,
		model.StatusUnverifiable.Emoji(), s.Unverifiable)
	for _, sig := range r.scorer.Calculate(report.Verdicts).Signals {
		if sig.Severity != score.SeverityInfo || sig.Type == score.SignalAccuracy {
			fmt.Fprintf(w, "  %s %s\n", severityBadge(sig.Severity), sig.Description)
		}
	}
	fmt.Fprintln(w)

	for _, v := range model.SortBySeverity(report.Verdicts) {
		fmt.Fprintf(w, "%s [%s] %s\n", v.Status.Emoji(), v.Status, v.Claim)
		fmt.Fprintf(w, "   %s · confidence %s\n", v.Category, percent(v.Confidence))
		if v.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", v.Explanation)
		}
		if v.Status.ExpectsCorrection() && v.CorrectInformation != "" {
			fmt.Fprintf(w, "   → %s\n", v.CorrectInformation)
		}
		for _, c := range r.classifier.Annotate(v.Sources, r.maxSources) {
			fmt.Fprintf(w, "   • %s (%s)\n", c.URL, c.Tier)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, rule)
}

func countFor(s model.Summary, st model.Status) int {
	switch st {
	case model.StatusVerified:
		return s.Verified
	case model.StatusInaccurate:
		return s.Inaccurate
	case model.StatusFalse:
		return s.False
	default:
		return s.Unverifiable
	}
}

func severityBadge(s score.Severity) string {
	switch s {
	case score.SeverityCritical:
		return "🔴"
	case score.SeverityWarning:
		return "🟡"
	default:
		return "🟢"
	}
}

func percent(confidence float64) string {
	return fmt.Sprintf("%.0f%%", confidence*100)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return write(f)
}
