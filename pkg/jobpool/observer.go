package jobpool

// ============================================================================
// Observer
// Purpose: An optional hook a Pool drives from real submission/dispatch
// activity, so a caller can wire in its own metrics backend without Pool
// depending on one. The method set is shaped to match
// internal/metrics.Collector exactly, so a *metrics.Collector satisfies this
// interface with no adapter code.
// ============================================================================

// Observer receives lifecycle events from a Pool and its Scopes. A nil
// Observer is always valid; Pool checks for nil before every call, so
// passing one in is purely additive.
type Observer interface {
	// RecordSubmit is called once per Execute/Scope.Execute, before
	// admission is checked.
	RecordSubmit()
	// RecordCompleted is called once a submitted job's body has returned
	// (or panicked), with its execution wall-clock time.
	RecordCompleted(latencySeconds float64, panicked bool)
	// SetPending is called whenever the global in-flight count changes.
	SetPending(n int)
	// SetAdmissionBlocked is called with true when a submitter is about to
	// park on a full admission cap, and with false once it unparks.
	SetAdmissionBlocked(blocked bool)
	// SetScopeDepth is called whenever a Scope or Subscope opens or closes,
	// with the resulting nesting depth (0 once back at top level).
	SetScopeDepth(depth int)
}
