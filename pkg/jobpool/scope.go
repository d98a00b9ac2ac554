package jobpool

// ============================================================================
// Scope / Subscope
// Purpose: A handle whose destruction blocks until the group of jobs
// submitted through it (directly, or through a nested subscope) has
// drained. Scopes hold no goroutines of their own — they coordinate purely
// through a counter shared with the pool's workers.
//
// Go has no borrow checker, so the lifetime brand from the original crate
// (§9) has no static enforcement here. The discipline a caller must follow
// is: a job submitted via Scope.Execute may close over state local to the
// call frame that created the scope, but must not let that closure escape
// to outlive the Scope/Subscope call — the Join on return is what makes
// that safe, not the type system (§9, design note on scoped borrowing).
// ============================================================================

// Scope delimits a group of jobs submitted via Execute or a nested
// Subscope. It is created by Scope (below) and is only valid for the
// dynamic extent of that call.
type Scope struct {
	pool    *Pool
	counter *counter
	depth   int
}

// Execute submits job to the pool under this scope's counter. The job is
// guaranteed to have completed by the time the Scope/Subscope call that
// created this Scope returns.
func (s *Scope) Execute(job func()) {
	s.pool.executeInsideScope(job, s.counter)
}

// Scope constructs a fresh Scope bound to p, invokes f with it, then blocks
// until every job submitted through that scope (and any subscope nested
// inside it) has completed, before returning f's result.
//
// If p has an Observer attached, SetScopeDepth(1) fires on entry and
// SetScopeDepth(0) fires once the join completes; this is advisory, like
// Pool.PendingJobs, when multiple top-level Scope calls run concurrently on
// the same pool.
func Scope[R any](p *Pool, f func(*Scope) R) R {
	s := &Scope{pool: p, counter: newCounter(), depth: 1}
	p.notifyScopeDepth(s.depth)
	defer func() {
		s.counter.join()
		p.notifyScopeDepth(0)
	}()
	return f(s)
}

// Subscope constructs a child of s with its own fresh, independent counter,
// invokes f with it, then blocks until every job submitted through the
// child has completed, before returning f's result. Nested scopes form a
// tree rooted at the outermost Scope call; by the time an outer scope
// starts draining, every child scope has already finished draining, since
// each child drains on its own return (§4.5).
func Subscope[R any](s *Scope, f func(*Scope) R) R {
	child := &Scope{pool: s.pool, counter: newCounter(), depth: s.depth + 1}
	s.pool.notifyScopeDepth(child.depth)
	defer func() {
		child.counter.join()
		s.pool.notifyScopeDepth(s.depth)
	}()
	return f(child)
}
