package model

import (
	"sort"
	"strings"
)

// Verdict is the outcome of checking one claim against web evidence.
// Field names are part of the export contract and must not change.
type Verdict struct {
	Claim              string   `json:"claim"`
	Category           Category `json:"category"`
	Status             Status   `json:"status"`
	Confidence         float64  `json:"confidence"`
	Explanation        string   `json:"explanation"`
	CorrectInformation string   `json:"correct_information"`
	Sources            []string `json:"sources"`
}

// Status is one of the four possible verdict outcomes
type Status string

const (
	StatusVerified     Status = "Verified"     // Matches current reliable data
	StatusInaccurate   Status = "Inaccurate"   // Outdated or partially correct
	StatusFalse        Status = "False"        // Contradicted or unsupported
	StatusUnverifiable Status = "Unverifiable" // Insufficient evidence or internal failure
)

// Statuses returns every status in severity order
func Statuses() []Status {
	return []Status{StatusFalse, StatusInaccurate, StatusUnverifiable, StatusVerified}
}

// ParseStatus matches s against the known statuses, ignoring case and
// surrounding whitespace
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Severity ranks statuses for display: lower is more severe
func (s Status) Severity() int {
	switch s {
	case StatusFalse:
		return 0
	case StatusInaccurate:
		return 1
	case StatusUnverifiable:
		return 2
	case StatusVerified:
		return 3
	default:
		return 2
	}
}

// Emoji returns the status badge used in terminal and Markdown output
func (s Status) Emoji() string {
	switch s {
	case StatusVerified:
		return "✅"
	case StatusInaccurate:
		return "⚠️"
	case StatusFalse:
		return "❌"
	default:
		return "❓"
	}
}

// Color returns the display colour name for the status
func (s Status) Color() string {
	switch s {
	case StatusVerified:
		return "green"
	case StatusInaccurate:
		return "orange"
	case StatusFalse:
		return "red"
	default:
		return "gray"
	}
}

// ExpectsCorrection reports whether a verdict with this status should carry
// correct_information
func (s Status) ExpectsCorrection() bool {
	return s == StatusInaccurate || s == StatusFalse
}

// UnverifiableVerdict builds the default verdict used whenever verification
// cannot complete
func UnverifiableVerdict(claim Claim, reason string) Verdict {
	return Verdict{
		Claim:       claim.Text,
		Category:    categoryOrUnknown(claim.Category),
		Status:      StatusUnverifiable,
		Confidence:  0.0,
		Explanation: reason,
		Sources:     []string{},
	}
}

// SortBySeverity returns a copy of verdicts ordered False, Inaccurate,
// Unverifiable, Verified. Ties keep their original order.
func SortBySeverity(verdicts []Verdict) []Verdict {
	sorted := make([]Verdict, len(verdicts))
	copy(sorted, verdicts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Status.Severity() < sorted[j].Status.Severity()
	})
	return sorted
}

// Summary counts verdicts per status
type Summary struct {
	Total        int `json:"total"`
	Verified     int `json:"verified"`
	Inaccurate   int `json:"inaccurate"`
	False        int `json:"false"`
	Unverifiable int `json:"unverifiable"`
}

// Summarize counts verdicts per status
func Summarize(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts)}
	for _, v := range verdicts {
		switch v.Status {
		case StatusVerified:
			s.Verified++
		case StatusInaccurate:
			s.Inaccurate++
		case StatusFalse:
			s.False++
		default:
			s.Unverifiable++
		}
	}
	return s
}

func categoryOrUnknown(c Category) Category {
	if trimmed(string(c)) == "" {
		return CategoryUnknown
	}
	return c
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
