// Package workerpool runs independent units of work on a fixed set of
// goroutines. A Pool is created once and reused by every multiply, so the
// amount of concurrency never depends on the number of rows or tiles.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines fed through a job channel. Its
// methods may be called from several goroutines, Close included, but the
// functions it runs must not call back into the same pool.
type Pool struct {
	workers int
	jobs    chan job
	mu      sync.RWMutex // held for reading while jobs are being sent
	closed  bool
}

type job struct {
	fn   func()
	done *sync.WaitGroup
}

// New starts a pool with n workers; n <= 0 means GOMAXPROCS.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{workers: n, jobs: make(chan job, 2*n)}
	for i := 0; i < n; i++ {
		go p.loop()
	}
	return p
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns a process-wide pool sized to GOMAXPROCS. It is never closed.
func Default() *Pool {
	defaultOnce.Do(func() { defaultPool = New(0) })
	return defaultPool
}

func (p *Pool) loop() {
	for j := range p.jobs {
		j.fn()
		j.done.Done()
	}
}

func (p *Pool) Workers() int { return p.workers }

// Close stops the workers after calls already running on the pool return.
// Further calls on a closed pool run on the caller's goroutine.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
}

// run calls body on n workers, or inline once when n == 1 or the pool is
// closed, and waits for it to finish.
func (p *Pool) run(n int, body, inline func()) {
	if n == 1 {
		inline()
		return
	}
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		inline()
		return
	}
	defer p.mu.RUnlock()
	p.spread(n, body)
}

// spread runs body on n workers and waits for all of them.
func (p *Pool) spread(n int, body func()) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.jobs <- job{fn: body, done: &wg}
	}
	wg.Wait()
}

// ParallelFor splits [0, n) into one contiguous chunk per worker and calls
// fn(start, end) for each chunk. It returns when every chunk is done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	w := min(p.workers, n)
	chunk := (n + w - 1) / w
	var next atomic.Int64
	p.run(w, func() {
		start := int(next.Add(1)-1) * chunk
		if start >= n {
			return
		}
		fn(start, min(start+chunk, n))
	}, func() { fn(0, n) })
}

// ParallelForBatched hands out [0, n) in batches of size batch by atomic
// work stealing, which balances better when items differ in cost.
func (p *Pool) ParallelForBatched(n, batch int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batch <= 0 {
		batch = 1
	}
	batches := (n + batch - 1) / batch
	w := min(p.workers, batches)
	var next atomic.Int64
	p.run(w, func() {
		for {
			start := int(next.Add(1)-1) * batch
			if start >= n {
				return
			}
			fn(start, min(start+batch, n))
		}
	}, func() { fn(0, n) })
}

// Each calls fn(i) for every i in [0, n), one index at a time.
func (p *Pool) Each(n int, fn func(i int)) {
	p.ParallelForBatched(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
