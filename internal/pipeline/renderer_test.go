package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verifact/internal/model"
)

func sampleReport() *model.Report {
	return model.NewReport("annual-report.pdf", []model.Verdict{
		{
			Claim:       "The Eiffel Tower is in Paris.",
			Category:    model.CategoryOrganizational,
			Status:      model.StatusVerified,
			Confidence:  0.98,
			Explanation: "Widely documented.",
			Sources:     []string{"https://en.wikipedia.org/wiki/Eiffel_Tower"},
		},
		{
			Claim:              companyClaim,
			Category:           model.CategoryFinancial,
			Status:             model.StatusFalse,
			Confidence:         0.9,
			Explanation:        "Filings show 12% growth.",
			CorrectInformation: "Company X grew revenue 12% in 2023.",
			Sources: []string{
				"https://www.sec.gov/x-10k",
				"https://www.reuters.com/x",
				"https://blog.example.com/x",
				"https://another.example.com/x",
			},
		},
		{
			Claim:              "Population doubled.",
			Category:           model.CategoryStatistics,
			Status:             model.StatusUnverifiable,
			Explanation:        "Could not search web: timeout",
			CorrectInformation: "should not be shown",
			Sources:            []string{},
		},
	})
}

func TestWriteJSON_KeepsClaimOrderAndFieldNames(t *testing.T) {
	r := NewRenderer(model.DefaultConfig())

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf, sampleReport()))
	assert.Contains(t, buf.String(), "\n  \"run_id\"")

	var decoded struct {
		Verdicts []map[string]interface{} `json:"verdicts"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Verdicts, 3)
	assert.Equal(t, "Verified", decoded.Verdicts[0]["status"])
	assert.Equal(t, "False", decoded.Verdicts[1]["status"])
	for _, key := range []string{"claim", "category", "status", "confidence", "explanation", "correct_information", "sources"} {
		assert.Contains(t, decoded.Verdicts[1], key)
	}
}

func TestWriteMarkdown(t *testing.T) {
	r := NewRenderer(model.DefaultConfig())

	var buf bytes.Buffer
	require.NoError(t, r.WriteMarkdown(&buf, sampleReport()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Fact-Check Report: annual-report.pdf"))
	assert.Contains(t, out, "| ❌ False | 1 |")
	assert.Contains(t, out, "- **Confidence:** 90%")
	assert.Contains(t, out, "- **Correct information:** Company X grew revenue 12% in 2023.")
	assert.NotContains(t, out, "should not be shown")

	// most severe first
	assert.Less(t, strings.Index(out, companyClaim), strings.Index(out, "Population doubled."))
	assert.Less(t, strings.Index(out, "Population doubled."), strings.Index(out, "The Eiffel Tower"))

	assert.Contains(t, out, "[sec.gov](https://www.sec.gov/x-10k) (primary)")
	assert.Contains(t, out, "[reuters.com](https://www.reuters.com/x) (secondary)")
	assert.Contains(t, out, "(tertiary)")
	assert.NotContains(t, out, "another.example.com")

	assert.Contains(t, out, "## Diagnostics")
	assert.Contains(t, out, "Accuracy index: 50/100")
	assert.Contains(t, out, "Check the cited sources")
}

func TestWriteMarkdown_NoClaims(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Output.IncludeFooter = false

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(cfg).WriteMarkdown(&buf, model.NewReport("empty.txt", nil)))
	assert.Contains(t, buf.String(), "No verifiable claims")
	assert.NotContains(t, buf.String(), "Check the cited sources")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(model.DefaultConfig()).WriteSummary(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "Claims checked: 3")
	assert.Contains(t, out, "→ Company X grew revenue 12% in 2023.")
	assert.Contains(t, out, "confidence 98%")
	assert.Contains(t, out, "Accuracy index: 50/100")
	assert.Contains(t, out, "1 claims could not be checked")
	assert.NotContains(t, out, "should not be shown")
}

func TestRenderFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(model.DefaultConfig())
	report := sampleReport()

	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")
	require.NoError(t, r.RenderJSON(report, jsonPath))
	require.NoError(t, r.RenderMarkdown(report, mdPath))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded model.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, report.Verdicts, decoded.Verdicts)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Findings")

	assert.Error(t, r.RenderJSON(report, filepath.Join(dir, "missing", "report.json")))
}
