package api

import (
	"context"
	"sync/atomic"
	"time"
)

// Lane selects which half of the WorkerPool a request runs in.
type Lane int

const (
	// LaneFast serves state reads, rolls and single checker moves.
	LaneFast Lane = iota
	// LaneSlow serves whole AI turns and record replays.
	LaneSlow
)

// lane is a counting semaphore with queue and throughput counters.
type lane struct {
	sem    chan struct{}
	queued atomic.Int64
	active atomic.Int64
	total  atomic.Int64
}

func newLane(size int) *lane {
	return &lane{sem: make(chan struct{}, size)}
}

func (l *lane) acquire(ctx context.Context) error {
	l.queued.Add(1)
	defer l.queued.Add(-1)

	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) tryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

func (l *lane) release() {
	l.active.Add(-1)
	l.total.Add(1)
	<-l.sem
}

// WorkerPool bounds concurrent request processing. Cheap table operations
// and AI turns draw from separate lanes so a burst of AI requests cannot
// starve state reads.
type WorkerPool struct {
	fast *lane
	slow *lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxFastWorkers int // Max concurrent fast operations (default: 16)
	MaxSlowWorkers int // Max concurrent slow operations (default: 2)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxFastWorkers: 16,
		MaxSlowWorkers: 2,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxFastWorkers <= 0 {
		config.MaxFastWorkers = def.MaxFastWorkers
	}
	if config.MaxSlowWorkers <= 0 {
		config.MaxSlowWorkers = def.MaxSlowWorkers
	}
	return &WorkerPool{
		fast: newLane(config.MaxFastWorkers),
		slow: newLane(config.MaxSlowWorkers),
	}
}

func (p *WorkerPool) lane(l Lane) *lane {
	if l == LaneSlow {
		return p.slow
	}
	return p.fast
}

// Acquire waits for a slot in the given lane.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) Acquire(ctx context.Context, l Lane) error {
	return p.lane(l).acquire(ctx)
}

// TryAcquire takes a slot without blocking and reports whether it did.
func (p *WorkerPool) TryAcquire(l Lane) bool {
	return p.lane(l).tryAcquire()
}

// Release returns a slot taken with Acquire or TryAcquire.
func (p *WorkerPool) Release(l Lane) {
	p.lane(l).release()
}

// AcquireWithTimeout waits at most timeout for a slot.
func (p *WorkerPool) AcquireWithTimeout(l Lane, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.Acquire(ctx, l)
}

// Do runs fn while holding a slot in the given lane.
func (p *WorkerPool) Do(ctx context.Context, l Lane, fn func()) error {
	if err := p.Acquire(ctx, l); err != nil {
		return err
	}
	defer p.Release(l)
	fn()
	return nil
}

// PoolStats is a point-in-time view of pool usage.
type PoolStats struct {
	ActiveFast int64 `json:"active_fast"`
	ActiveSlow int64 `json:"active_slow"`
	QueuedFast int64 `json:"queued_fast"`
	QueuedSlow int64 `json:"queued_slow"`
	TotalFast  int64 `json:"total_fast"`
	TotalSlow  int64 `json:"total_slow"`
	MaxFast    int   `json:"max_fast"`
	MaxSlow    int   `json:"max_slow"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveFast: p.fast.active.Load(),
		ActiveSlow: p.slow.active.Load(),
		QueuedFast: p.fast.queued.Load(),
		QueuedSlow: p.slow.queued.Load(),
		TotalFast:  p.fast.total.Load(),
		TotalSlow:  p.slow.total.Load(),
		MaxFast:    cap(p.fast.sem),
		MaxSlow:    cap(p.slow.sem),
	}
}
