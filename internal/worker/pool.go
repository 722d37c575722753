package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work producing a value of type T
type Job[T any] interface {
	Execute(ctx context.Context) T
}

// JobFunc adapts a function to the Job interface
type JobFunc[T any] func(ctx context.Context) T

// Execute calls f
func (f JobFunc[T]) Execute(ctx context.Context) T {
	return f(ctx)
}

type indexedJob[T any] struct {
	index int
	job   Job[T]
}

type indexedResult[T any] struct {
	index int
	value T
}

// Pool runs submitted jobs on a fixed number of workers and returns the
// results in submission order, whatever order the jobs finish in.
//
// Workers never abandon queued jobs: once submitted, every job is executed
// and contributes exactly one result. Cancellation is observed by the jobs
// themselves through the context they receive.
type Pool[T any] struct {
	workers   int
	jobQueue  chan indexedJob[T]
	results   chan indexedResult[T]
	wg        sync.WaitGroup
	collected chan []T
	ctx       context.Context
	cancel    context.CancelFunc
	submitted int
	started   bool
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool[T any](workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	return &Pool[T]{
		workers:   workers,
		jobQueue:  make(chan indexedJob[T], workers*2),
		results:   make(chan indexedResult[T], workers*2),
		collected: make(chan []T, 1),
	}
}

// Start launches the workers. Jobs receive a context derived from ctx.
func (p *Pool[T]) Start(ctx context.Context) {
	if p.started {
		return
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	go p.collect()
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	for item := range p.jobQueue {
		p.results <- indexedResult[T]{index: item.index, value: item.job.Execute(p.ctx)}
	}
}

// collect drains results continuously so workers never block on a full
// results buffer while jobs are still being submitted.
func (p *Pool[T]) collect() {
	var slots []T
	for r := range p.results {
		if r.index >= len(slots) {
			grown := make([]T, r.index+1)
			copy(grown, slots)
			slots = grown
		}
		slots[r.index] = r.value
	}
	p.collected <- slots
}

// Submit queues a job. It must be called from a single goroutine and only
// between Start and Wait.
func (p *Pool[T]) Submit(job Job[T]) {
	p.jobQueue <- indexedJob[T]{index: p.submitted, job: job}
	p.submitted++
}

// Wait waits for all submitted jobs and returns their results in submission order
func (p *Pool[T]) Wait() []T {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.results)

	slots := <-p.collected
	p.cancel()

	out := make([]T, p.submitted)
	copy(out, slots)
	return out
}
