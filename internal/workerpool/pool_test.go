// SPDX-License-Identifier: GPL-2.0-only

package workerpool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := New(4, 16)
	defer p.Close()

	var n int64
	const jobs = 200
	for i := 0; i < jobs; i++ {
		p.Submit(func() { atomic.AddInt64(&n, 1) })
	}
	p.WaitAll()

	if got := atomic.LoadInt64(&n); got != jobs {
		t.Fatalf("got %d completed jobs, want %d", got, jobs)
	}
}

func TestWaitAllIsReusable(t *testing.T) {
	p := New(2, 8)
	defer p.Close()

	var n int64
	for round := 0; round < 3; round++ {
		for i := 0; i < 10; i++ {
			p.Submit(func() { atomic.AddInt64(&n, 1) })
		}
		p.WaitAll()
		if got := atomic.LoadInt64(&n); got != int64((round+1)*10) {
			t.Fatalf("round %d: got %d, want %d", round, got, (round+1)*10)
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := New(2, 4)
	p.Close()
	p.Close()
}

func TestPoolClampsDegenerateSizes(t *testing.T) {
	p := New(0, 0)
	defer p.Close()

	done := make(chan struct{})
	p.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("job never ran on a degenerate-sized pool")
	}
}
