package score

import (
	"testing"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/validate"
)

func newScorer() *Scorer {
	return NewScorer(validate.NewAuthorityClassifier(&model.DefaultConfig().Authority))
}

func findSignal(signals []Signal, typ SignalType) (Signal, bool) {
	for _, s := range signals {
		if s.Type == typ {
			return s, true
		}
	}
	return Signal{}, false
}

func TestScorer_Calculate_AccuracyIndex(t *testing.T) {
	verdicts := []model.Verdict{
		{Status: model.StatusVerified, Confidence: 0.9, Sources: []string{"https://www.sec.gov/a"}},
		{Status: model.StatusVerified, Confidence: 0.8, Sources: []string{"https://www.reuters.com/b"}},
		{Status: model.StatusInaccurate, Confidence: 0.7, Sources: []string{"https://blog.example.com/c"}},
		{Status: model.StatusFalse, Confidence: 0.9, Sources: []string{"https://www.sec.gov/d"}},
		{Status: model.StatusUnverifiable, Explanation: "Insufficient evidence", Sources: []string{}},
	}

	result := newScorer().Calculate(verdicts)

	// (2 + 0.5) / 4 * 100 = 62.5, rounded
	if result.Index != 63 {
		t.Errorf("Expected index 63, got %d", result.Index)
	}

	accuracy, ok := findSignal(result.Signals, SignalAccuracy)
	if !ok {
		t.Fatal("Expected accuracy signal")
	}
	if accuracy.Severity != SeverityCritical {
		t.Errorf("Expected critical severity when a claim is False, got %s", accuracy.Severity)
	}

	authority, ok := findSignal(result.Signals, SignalAuthorityDistribution)
	if !ok {
		t.Fatal("Expected authority signal")
	}
	if authority.Data["primary"] != 2 || authority.Data["secondary"] != 1 || authority.Data["tertiary"] != 1 {
		t.Errorf("Unexpected authority counts: %v", authority.Data)
	}
	if authority.Severity != SeverityInfo {
		t.Errorf("Expected info severity with primary sources, got %s", authority.Severity)
	}

	if _, ok := findSignal(result.Signals, SignalCheckFailures); ok {
		t.Error("A judged Unverifiable verdict is not a failure")
	}
}

func TestScorer_Calculate_NoClaims(t *testing.T) {
	result := newScorer().Calculate(nil)

	if result.Index != -1 {
		t.Errorf("Expected index -1, got %d", result.Index)
	}
	if len(result.Signals) != 1 || result.Signals[0].Severity != SeverityInfo {
		t.Errorf("Expected a single info signal, got %+v", result.Signals)
	}
}

func TestScorer_Calculate_AllUndecided(t *testing.T) {
	verdicts := []model.Verdict{
		{Status: model.StatusUnverifiable, Explanation: "Could not search web: timeout", Sources: []string{}},
		{Status: model.StatusUnverifiable, Explanation: "Verification analysis failed: bad json", Sources: []string{}},
	}

	result := newScorer().Calculate(verdicts)
	if result.Index != -1 {
		t.Errorf("Expected index -1, got %d", result.Index)
	}

	failures, ok := findSignal(result.Signals, SignalCheckFailures)
	if !ok {
		t.Fatal("Expected failure signal")
	}
	if failures.Data["failed"] != 2 {
		t.Errorf("Expected 2 failures, got %v", failures.Data["failed"])
	}

	authority, _ := findSignal(result.Signals, SignalAuthorityDistribution)
	if authority.Severity != SeverityWarning {
		t.Errorf("Expected warning with no sources, got %s", authority.Severity)
	}
}

func TestScorer_Calculate_CoverageAndConfidence(t *testing.T) {
	verdicts := []model.Verdict{
		{Status: model.StatusVerified, Confidence: 0.3, Sources: []string{}},
		{Status: model.StatusVerified, Confidence: 0.9, Sources: []string{"https://en.wikipedia.org/wiki/X"}},
	}

	result := newScorer().Calculate(verdicts)

	coverage, _ := findSignal(result.Signals, SignalSourceCoverage)
	if coverage.Severity != SeverityCritical {
		t.Errorf("Expected critical coverage at 50%% unsourced, got %s", coverage.Severity)
	}

	low, ok := findSignal(result.Signals, SignalLowConfidence)
	if !ok {
		t.Fatal("Expected low confidence signal")
	}
	if low.Data["count"] != 1 {
		t.Errorf("Expected 1 low confidence verdict, got %v", low.Data["count"])
	}

	if result.Index != 100 {
		t.Errorf("Expected index 100, got %d", result.Index)
	}
}

func TestIsFailure(t *testing.T) {
	tests := []struct {
		explanation string
		want        bool
	}{
		{"Could not search web: 401", true},
		{"Verification analysis failed: timeout", true},
		{"Verification cancelled: context canceled", true},
		{"Verification failed unexpectedly: nil map", true},
		{"No reliable source mentions this figure.", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsFailure(tt.explanation); got != tt.want {
			t.Errorf("IsFailure(%q) = %v, want %v", tt.explanation, got, tt.want)
		}
	}
}
