package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// mockJob sleeps for duration and returns its id
type mockJob struct {
	id       int
	duration time.Duration
	executed *int32 // atomic counter
	inFlight *int32
	maxSeen  *int32
}

func (j *mockJob) Execute(ctx context.Context) int {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.inFlight != nil {
		n := atomic.AddInt32(j.inFlight, 1)
		for {
			max := atomic.LoadInt32(j.maxSeen)
			if n <= max || atomic.CompareAndSwapInt32(j.maxSeen, max, n) {
				break
			}
		}
		defer atomic.AddInt32(j.inFlight, -1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
		}
	}
	return j.id
}

func TestNewPool(t *testing.T) {
	p1 := NewPool[int](5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool[int](0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool[int](-1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool[int](2)
	pool.Start(context.Background())

	var executed int32
	count := 10

	for i := 0; i < count; i++ {
		pool.Submit(&mockJob{id: i, executed: &executed})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}

	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_PreservesSubmissionOrder(t *testing.T) {
	pool := NewPool[int](4)
	pool.Start(context.Background())

	count := 40
	for i := 0; i < count; i++ {
		// Earlier jobs take longer so they finish last
		pool.Submit(&mockJob{id: i, duration: time.Duration(count-i) * time.Millisecond / 4})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	for i, got := range results {
		if got != i {
			t.Fatalf("result %d out of order: got %d", i, got)
		}
	}
}

func TestPool_ManyJobsDoNotDeadlock(t *testing.T) {
	pool := NewPool[int](2)
	pool.Start(context.Background())

	done := make(chan []int)
	go func() {
		for i := 0; i < 200; i++ {
			pool.Submit(&mockJob{id: i})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != 200 {
			t.Errorf("expected 200 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pool deadlocked with more jobs than buffer capacity")
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool[int](3)
	pool.Start(context.Background())

	var inFlight, maxSeen int32
	for i := 0; i < 12; i++ {
		pool.Submit(&mockJob{id: i, duration: 10 * time.Millisecond, inFlight: &inFlight, maxSeen: &maxSeen})
	}
	pool.Wait()

	if max := atomic.LoadInt32(&maxSeen); max > 3 {
		t.Errorf("expected at most 3 concurrent jobs, saw %d", max)
	}
}

func TestPool_CancelledContextStillRunsEveryJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool[int](2)
	pool.Start(ctx)

	var executed int32
	for i := 0; i < 6; i++ {
		pool.Submit(&mockJob{id: i, duration: time.Second, executed: &executed})
	}

	results := pool.Wait()
	if len(results) != 6 {
		t.Errorf("expected 6 results, got %d", len(results))
	}
	if atomic.LoadInt32(&executed) != 6 {
		t.Errorf("expected every job to run, got %d", executed)
	}
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool[int](2)
	pool.Start(context.Background())

	results := pool.Wait()
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestJobFunc(t *testing.T) {
	pool := NewPool[string](1)
	pool.Start(context.Background())
	pool.Submit(JobFunc[string](func(ctx context.Context) string { return "ok" }))

	results := pool.Wait()
	if len(results) != 1 || results[0] != "ok" {
		t.Errorf("unexpected results: %v", results)
	}
}
