package verify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ppiankov/verifact/internal/logging"
	"github.com/ppiankov/verifact/internal/metrics"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/worker"
)

// ClaimVerifier verifies a single claim and never fails
type ClaimVerifier interface {
	Verify(ctx context.Context, claim model.Claim) model.Verdict
}

// Stage marks where in its lifecycle a claim is
type Stage string

const (
	StageStarted  Stage = "started"
	StageFinished Stage = "finished"
)

// PreviewRunes is the length of the claim preview carried in progress events
const PreviewRunes = 50

// ProgressEvent reports a claim starting or finishing verification.
// Completed counts finished claims at the time of the event and never
// decreases from one emitted event to the next.
type ProgressEvent struct {
	Stage     Stage
	Index     int
	Total     int
	Completed int
	Preview   string
	Status    model.Status // Set on StageFinished
}

// Orchestrator verifies a batch of claims concurrently
type Orchestrator struct {
	verifier ClaimVerifier
	workers  int
	logger   logging.Logger
}

// NewOrchestrator creates an orchestrator running up to workers
// verifications at once. workers <= 1 verifies strictly in sequence.
func NewOrchestrator(verifier ClaimVerifier, workers int, logger logging.Logger) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		verifier: verifier,
		workers:  workers,
		logger:   logging.OrNop(logger),
	}
}

// VerifyAll returns one verdict per claim in claim order. Progress events
// are sent without blocking; a nil or full channel drops them.
func (o *Orchestrator) VerifyAll(ctx context.Context, claims []model.Claim, progress chan<- ProgressEvent) []model.Verdict {
	if len(claims) == 0 {
		return []model.Verdict{}
	}

	start := time.Now()
	total := len(claims)

	var mu sync.Mutex
	completed := 0

	// Sending under the lock keeps Completed ordered across events
	emit := func(ev ProgressEvent) {
		if progress == nil {
			return
		}
		select {
		case progress <- ev:
		default:
		}
	}

	workers := o.workers
	if workers > total {
		workers = total
	}
	pool := worker.NewPool[model.Verdict](workers)
	pool.Start(ctx)

	for i, claim := range claims {
		i, claim := i, claim
		pool.Submit(worker.JobFunc[model.Verdict](func(ctx context.Context) model.Verdict {
			preview := claim.Preview(PreviewRunes)

			mu.Lock()
			emit(ProgressEvent{Stage: StageStarted, Index: i, Total: total, Completed: completed, Preview: preview})
			mu.Unlock()

			verdict := o.verifyIsolated(ctx, claim)

			mu.Lock()
			completed++
			emit(ProgressEvent{
				Stage:     StageFinished,
				Index:     i,
				Total:     total,
				Completed: completed,
				Preview:   preview,
				Status:    verdict.Status,
			})
			mu.Unlock()

			return verdict
		}))
	}

	verdicts := pool.Wait()
	metrics.BatchDuration.Observe(time.Since(start).Seconds())

	summary := model.Summarize(verdicts)
	o.logger.Info("Batch verified", map[string]interface{}{
		"claims":       total,
		"workers":      workers,
		"verified":     summary.Verified,
		"inaccurate":   summary.Inaccurate,
		"false":        summary.False,
		"unverifiable": summary.Unverifiable,
		"duration":     time.Since(start).String(),
	})
	return verdicts
}

// verifyIsolated turns a panic in one verification into an Unverifiable verdict
func (o *Orchestrator) verifyIsolated(ctx context.Context, claim model.Claim) (verdict model.Verdict) {
	metrics.ClaimsInFlight.Inc()
	defer metrics.ClaimsInFlight.Dec()

	defer func() {
		if r := recover(); r != nil {
			metrics.VerificationFailures.WithLabelValues("panic").Inc()
			o.logger.Error("Verification panicked", map[string]interface{}{
				"claim": claim.Preview(PreviewRunes),
				"panic": fmt.Sprint(r),
			})
			verdict = model.UnverifiableVerdict(claim, fmt.Sprintf("Verification failed unexpectedly: %v", r))
		}
	}()

	return o.verifier.Verify(ctx, claim)
}

// VerifyAllFunc is VerifyAll for callback-style consumers. Every event is
// delivered in emission order; a panicking callback is logged and ignored.
func (o *Orchestrator) VerifyAllFunc(ctx context.Context, claims []model.Claim, fn func(ProgressEvent)) []model.Verdict {
	if fn == nil {
		return o.VerifyAll(ctx, claims, nil)
	}

	// Two events per claim, so nothing is ever dropped
	events := make(chan ProgressEvent, 2*len(claims))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			o.deliver(fn, ev)
		}
	}()

	verdicts := o.VerifyAll(ctx, claims, events)
	close(events)
	<-done
	return verdicts
}

func (o *Orchestrator) deliver(fn func(ProgressEvent), ev ProgressEvent) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("Progress callback panicked", map[string]interface{}{
				"index": ev.Index,
				"panic": fmt.Sprint(r),
			})
		}
	}()
	fn(ev)
}
