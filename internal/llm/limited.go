package llm

import (
	"context"
	"time"

	"github.com/ppiankov/verifact/internal/metrics"
)

// Waiter blocks until a call for key may proceed
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// LimiterKey is the rate limiter key completions of provider name wait on
func LimiterKey(name string) string {
	return "llm:" + name
}

// RateLimited wraps a provider so every completion first waits on limiter
// and is timed into the gateway duration histogram
func RateLimited(p Provider, limiter Waiter) Provider {
	return &limitedProvider{Provider: p, limiter: limiter, key: LimiterKey(p.Name())}
}

type limitedProvider struct {
	Provider
	limiter Waiter
	key     string
}

func (l *limitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx, l.key); err != nil {
			return nil, completionErr(l.Name(), err)
		}
	}

	start := time.Now()
	resp, err := l.Provider.Complete(ctx, req)
	metrics.GatewayRequestDuration.WithLabelValues("judgment", l.Name()).Observe(time.Since(start).Seconds())
	return resp, err
}
