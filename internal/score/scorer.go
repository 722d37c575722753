// Package score derives batch-level diagnostic signals from a set of
// verdicts. Signals are descriptive; they never change a verdict.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/validate"
)

// SignalType names a diagnostic
type SignalType string

const (
	SignalAccuracy              SignalType = "accuracy"
	SignalAuthorityDistribution SignalType = "authority_distribution"
	SignalSourceCoverage        SignalType = "source_coverage"
	SignalLowConfidence         SignalType = "low_confidence"
	SignalCheckFailures         SignalType = "check_failures"
)

// Severity grades a signal
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// LowConfidence is the threshold below which a decided verdict is flagged
const LowConfidence = 0.5

// failurePrefixes mark Unverifiable verdicts produced by an internal failure
// rather than by the judge
var failurePrefixes = []string{
	"Could not search web",
	"Verification analysis failed",
	"Verification cancelled",
	"Verification failed unexpectedly",
}

// Signal is one diagnostic observation about a batch
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    Severity               `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Assessment summarises a batch
type Assessment struct {
	// Index is 0-100 over decided verdicts; -1 when nothing was decided
	Index   int      `json:"index"`
	Signals []Signal `json:"signals"`
}

// Scorer calculates the accuracy index and generates signals
type Scorer struct {
	classifier *validate.AuthorityClassifier
}

// NewScorer creates a new scorer
func NewScorer(classifier *validate.AuthorityClassifier) *Scorer {
	return &Scorer{classifier: classifier}
}

// Calculate assesses a batch of verdicts
func (s *Scorer) Calculate(verdicts []model.Verdict) Assessment {
	index, accuracy := s.calculateAccuracy(verdicts)
	signals := []Signal{accuracy}

	if len(verdicts) == 0 {
		return Assessment{Index: index, Signals: signals}
	}

	signals = append(signals, s.calculateAuthority(verdicts))
	signals = append(signals, s.calculateCoverage(verdicts))
	if sig, ok := s.detectLowConfidence(verdicts); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.detectFailures(verdicts); ok {
		signals = append(signals, sig)
	}

	return Assessment{Index: index, Signals: signals}
}

// calculateAccuracy scores decided verdicts: Verified counts fully,
// Inaccurate half, False not at all
func (s *Scorer) calculateAccuracy(verdicts []model.Verdict) (int, Signal) {
	summary := model.Summarize(verdicts)
	decided := summary.Verified + summary.Inaccurate + summary.False

	if decided == 0 {
		severity := SeverityWarning
		desc := "No claim could be decided"
		if len(verdicts) == 0 {
			severity = SeverityInfo
			desc = "No verifiable claims found"
		}
		return -1, Signal{
			Type:        SignalAccuracy,
			Severity:    severity,
			Description: desc,
			Data:        map[string]interface{}{"claims": len(verdicts), "decided": 0},
		}
	}

	weighted := float64(summary.Verified) + 0.5*float64(summary.Inaccurate)
	index := int(math.Round(weighted / float64(decided) * 100))

	severity := SeverityInfo
	if summary.False > 0 {
		severity = SeverityCritical
	} else if summary.Inaccurate > 0 {
		severity = SeverityWarning
	}

	return index, Signal{
		Type:        SignalAccuracy,
		Severity:    severity,
		Description: fmt.Sprintf("Accuracy index: %d/100 (%d of %d decided claims verified)", index, summary.Verified, decided),
		Data: map[string]interface{}{
			"verified":   summary.Verified,
			"inaccurate": summary.Inaccurate,
			"false":      summary.False,
			"decided":    decided,
			"index":      index,
			"formula":    "(verified + inaccurate*0.5) / decided * 100",
		},
	}
}

// calculateAuthority counts cited sources per authority tier
func (s *Scorer) calculateAuthority(verdicts []model.Verdict) Signal {
	primaryCount := 0
	secondaryCount := 0
	tertiaryCount := 0

	for _, v := range verdicts {
		for _, src := range v.Sources {
			switch s.classifier.Classify(src) {
			case model.TierPrimary:
				primaryCount++
			case model.TierSecondary:
				secondaryCount++
			case model.TierTertiary:
				tertiaryCount++
			}
		}
	}

	total := primaryCount + secondaryCount + tertiaryCount
	if total == 0 {
		return Signal{
			Type:        SignalAuthorityDistribution,
			Severity:    SeverityWarning,
			Description: "No sources cited",
			Data:        map[string]interface{}{"total": 0},
		}
	}

	severity := SeverityInfo
	if primaryCount == 0 {
		severity = SeverityWarning
	}

	return Signal{
		Type:        SignalAuthorityDistribution,
		Severity:    severity,
		Description: fmt.Sprintf("Authority distribution: %d primary, %d secondary, %d tertiary", primaryCount, secondaryCount, tertiaryCount),
		Data: map[string]interface{}{
			"primary":   primaryCount,
			"secondary": secondaryCount,
			"tertiary":  tertiaryCount,
			"total":     total,
		},
	}
}

// calculateCoverage flags decided verdicts that cite nothing
func (s *Scorer) calculateCoverage(verdicts []model.Verdict) Signal {
	decided := 0
	unsourced := 0
	for _, v := range verdicts {
		if v.Status == model.StatusUnverifiable {
			continue
		}
		decided++
		if len(v.Sources) == 0 {
			unsourced++
		}
	}

	severity := SeverityInfo
	if decided > 0 {
		ratio := float64(unsourced) / float64(decided)
		if ratio >= 0.5 {
			severity = SeverityCritical
		} else if unsourced > 0 {
			severity = SeverityWarning
		}
	}

	return Signal{
		Type:        SignalSourceCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Decided verdicts without sources: %d/%d", unsourced, decided),
		Data: map[string]interface{}{
			"unsourced": unsourced,
			"decided":   decided,
		},
	}
}

// detectLowConfidence flags decided verdicts the judge was unsure about
func (s *Scorer) detectLowConfidence(verdicts []model.Verdict) (Signal, bool) {
	low := 0
	for _, v := range verdicts {
		if v.Status != model.StatusUnverifiable && v.Confidence < LowConfidence {
			low++
		}
	}
	if low == 0 {
		return Signal{}, false
	}

	return Signal{
		Type:        SignalLowConfidence,
		Severity:    SeverityWarning,
		Description: fmt.Sprintf("%d decided verdicts below %.0f%% confidence", low, LowConfidence*100),
		Data: map[string]interface{}{
			"count":     low,
			"threshold": LowConfidence,
		},
	}, true
}

// detectFailures counts claims left Unverifiable by a search, judgment or
// cancellation failure
func (s *Scorer) detectFailures(verdicts []model.Verdict) (Signal, bool) {
	failed := 0
	for _, v := range verdicts {
		if v.Status == model.StatusUnverifiable && IsFailure(v.Explanation) {
			failed++
		}
	}
	if failed == 0 {
		return Signal{}, false
	}

	return Signal{
		Type:        SignalCheckFailures,
		Severity:    SeverityCritical,
		Description: fmt.Sprintf("%d claims could not be checked because of errors", failed),
		Data: map[string]interface{}{
			"failed": failed,
			"total":  len(verdicts),
		},
	}, true
}

// IsFailure reports whether an Unverifiable explanation describes an
// internal failure
func IsFailure(explanation string) bool {
	for _, p := range failurePrefixes {
		if strings.HasPrefix(explanation, p) {
			return true
		}
	}
	return false
}
