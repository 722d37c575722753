package model

import (
	"time"

	"github.com/google/uuid"
)

// Report is the exported result of one verification batch
type Report struct {
	RunID       string    `json:"run_id"`       // Unique batch identifier
	Document    string    `json:"document"`     // Name of the checked document
	GeneratedAt time.Time `json:"generated_at"` // When the batch finished
	ClaimsFound int       `json:"claims_found"` // Claims returned by extraction
	Summary     Summary   `json:"summary"`      // Counts per status
	Verdicts    []Verdict `json:"verdicts"`     // One per claim, in claim order
}

// NewReport wraps the verdicts of one batch
func NewReport(document string, verdicts []Verdict) *Report {
	if verdicts == nil {
		verdicts = []Verdict{}
	}
	return &Report{
		RunID:       uuid.NewString(),
		Document:    document,
		GeneratedAt: time.Now().UTC(),
		ClaimsFound: len(verdicts),
		Summary:     Summarize(verdicts),
		Verdicts:    verdicts,
	}
}
