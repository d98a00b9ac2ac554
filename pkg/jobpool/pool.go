package jobpool

// ============================================================================
// Pool
// Purpose: Constructs the queue, spawns workers, and publishes the
// submission entry points (Execute, Scope, Join) plus orderly shutdown.
// ============================================================================

import (
	"sync"
)

// Pool coordinates a fixed-size group of worker goroutines.
//
// A Pool is safe for concurrent use by multiple goroutines, including
// reentrant use from inside a job it is running (§5: this can deadlock if
// MaxJobs is set and every worker is blocked trying to submit more jobs —
// that is a caller-visible contract, not a bug the pool detects).
type Pool struct {
	mu      sync.Mutex
	closed  bool
	workers []*worker
	wg      sync.WaitGroup

	queue         *messageQueue
	globalCounter *counter
	maxJobs       *uint16
	observer      Observer
}

// New constructs a Pool from the given configuration. It returns an error if
// the configuration fails validation (§6).
func New(config PoolConfig) (*Pool, error) {
	return newPool(config, nil)
}

// NewObserved is New, plus an Observer driven from real submission and
// dispatch activity: RecordSubmit/RecordCompleted/SetPending around every
// job, SetAdmissionBlocked around a capped Execute that has to park, and
// SetScopeDepth from Scope/Subscope. obs may be nil, in which case this is
// identical to New.
func NewObserved(config PoolConfig, obs Observer) (*Pool, error) {
	return newPool(config, obs)
}

func newPool(config PoolConfig, obs Observer) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		queue:         newMessageQueue(config.IncomingBufSize),
		globalCounter: newCounter(),
		maxJobs:       config.MaxJobs,
		observer:      obs,
		workers:       make([]*worker, 0, config.NWorkers),
	}

	for i := 0; i < int(config.NWorkers); i++ {
		w := newWorker(i, p.queue)
		p.workers = append(p.workers, w)
		p.wg.Add(1)
		go w.run(&p.wg)
	}

	return p, nil
}

// WithDefaultConfig constructs a Pool with DefaultConfig(). The default
// configuration always validates, so this never fails.
func WithDefaultConfig() *Pool {
	p, err := New(DefaultConfig())
	if err != nil {
		// DefaultConfig is a package invariant: NWorkers > 0, MaxJobs unset.
		panic(err)
	}
	return p
}

// WithSize constructs a Pool with the given worker count and no other
// limits.
func WithSize(n uint16) (*Pool, error) {
	return New(ConfigBuilder().NWorkers(n).Build())
}

// Execute submits job to the pool. It blocks while the global counter is at
// MaxJobs (if set), then enqueues the job; the enqueue itself may also block
// if the queue is bounded and full. Admission is checked before queueing, so
// MaxJobs bounds outstanding work even when the queue is unbounded (§4.4).
func (p *Pool) Execute(job func()) {
	p.submit(job, nil)
}

// executeInsideScope is identical to Execute except the scope counter is
// also incremented — uncapped, and in the submitter's goroutine, before the
// message is enqueued — so that the scope's eventual Join cannot race past
// an in-flight submission (§4.4).
func (p *Pool) executeInsideScope(job func(), scopeCounter *counter) {
	p.submit(job, scopeCounter)
}

func (p *Pool) submit(job func(), scopeCounter *counter) {
	if p.observer != nil {
		p.observer.RecordSubmit()
	}

	blocking := p.maxJobs != nil && p.observer != nil && p.globalCounter.count() >= *p.maxJobs
	if blocking {
		p.observer.SetAdmissionBlocked(true)
	}
	p.globalCounter.inc(p.maxJobs)
	if blocking {
		p.observer.SetAdmissionBlocked(false)
	}

	if scopeCounter != nil {
		scopeCounter.inc(nil)
	}

	if p.observer != nil {
		p.observer.SetPending(p.PendingJobs())
	}

	p.queue.send(message{
		job:           job,
		globalCounter: p.globalCounter,
		scopeCounter:  scopeCounter,
		observer:      p.observer,
	})
}

// Join blocks until the pool's global in-flight count reaches zero. It does
// not stop workers; further submissions remain legal afterward.
func (p *Pool) Join() {
	p.globalCounter.join()
}

// PendingJobs returns an advisory, instantaneous snapshot of the number of
// jobs currently queued or running pool-wide.
func (p *Pool) PendingJobs() int {
	return int(p.globalCounter.count())
}

// notifyScopeDepth forwards a scope-depth change to the observer, if any.
func (p *Pool) notifyScopeDepth(depth int) {
	if p.observer != nil {
		p.observer.SetScopeDepth(depth)
	}
}

// Close enqueues exactly one shutdown message per worker, then waits for
// every worker goroutine to exit. Any jobs already queued before the
// shutdown messages are drained and run first, since the queue is FIFO.
//
// Because Close waits for every worker, and a worker only exits after the
// jobs ahead of its shutdown message, Close returns only once every job
// submitted before it was called has finished; no Join is needed first.
// Calling Close more than once is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	for range p.workers {
		p.queue.send(message{shutdown: true})
	}
	p.wg.Wait()
}
