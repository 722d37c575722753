package verify

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/search"
)

type stubSearcher struct {
	result *search.Result
	err    error
	calls  int32
	mu     sync.Mutex
	seen   []string
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) (*search.Result, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.seen = append(s.seen, query)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubProvider struct {
	response string
	err      error
	calls    int32
	mu       sync.Mutex
	last     llm.CompletionRequest
}

func (p *stubProvider) Name() string                      { return "stub" }
func (p *stubProvider) IsAvailable(_ context.Context) bool { return true }
func (p *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	atomic.AddInt32(&p.calls, 1)
	p.mu.Lock()
	p.last = req
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Text: p.response}, nil
}

// funcVerifier adapts a function to ClaimVerifier
type funcVerifier func(ctx context.Context, claim model.Claim) model.Verdict

func (f funcVerifier) Verify(ctx context.Context, claim model.Claim) model.Verdict {
	return f(ctx, claim)
}

func claimsN(n int) []model.Claim {
	claims := make([]model.Claim, n)
	for i := range claims {
		claims[i] = model.Claim{
			Text:     "claim " + strings.Repeat("x", i%7) + string(rune('A'+i%26)),
			Category: model.CategoryStatistics,
		}
	}
	return claims
}

const falseJudgment = `{
  "status": "False",
  "confidence": 0.9,
  "explanation": "Reported revenue growth for 2023 was 12%, not 40%.",
  "correct_information": "Company X grew revenue 12% in 2023.",
  "sources": ["https://ir.companyx.example/2023-annual-report"]
}`

func contradictingEvidence() *search.Result {
	return &search.Result{
		Answer: "Company X reported 12% revenue growth in 2023.",
		Sources: []search.Source{
			{URL: "https://ir.companyx.example/2023-annual-report", Title: "Annual Report 2023", Content: "Revenue rose 12% year over year."},
		},
	}
}
