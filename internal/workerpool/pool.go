// SPDX-License-Identifier: GPL-2.0-only

// Package workerpool provides a fixed-size goroutine pool with a bounded
// job queue and a single mutex/condition-variable pair used to wait for
// all submitted jobs to drain. It is the low-level fan-out primitive
// beneath the block orchestrator; higher-level parallel composition
// (collecting per-slice errors) is layered on top with
// golang.org/x/sync/errgroup instead of duplicating that bookkeeping
// here.
package workerpool

import "sync"

// Job is a unit of work submitted to a Pool.
type Job func()

// Pool runs submitted Jobs on a fixed number of worker goroutines.
type Pool struct {
	jobs chan Job

	mu      sync.Mutex
	cond    *sync.Cond
	pending int

	closeOnce sync.Once
	done      chan struct{}
}

// New starts a pool of n worker goroutines reading from a job queue of
// the given capacity. n and queueCap are both clamped to at least 1.
func New(n, queueCap int) *Pool {
	if n < 1 {
		n = 1
	}
	if queueCap < 1 {
		queueCap = 1
	}

	p := &Pool{
		jobs: make(chan Job, queueCap),
		done: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job()
			p.mu.Lock()
			p.pending--
			if p.pending == 0 {
				p.cond.Broadcast()
			}
			p.mu.Unlock()
		case <-p.done:
			return
		}
	}
}

// Submit enqueues job for execution, blocking if the queue is full.
// Submit must not be called after Close.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	p.pending++
	p.mu.Unlock()
	p.jobs <- job
}

// WaitAll blocks until every submitted job that has not yet completed
// finishes running.
func (p *Pool) WaitAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending > 0 {
		p.cond.Wait()
	}
}

// Close stops all worker goroutines. It is idempotent and safe to call
// multiple times; it does not wait for in-flight jobs, call WaitAll
// first if that is required.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}
