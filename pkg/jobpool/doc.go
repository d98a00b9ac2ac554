// ============================================================================
// jobpool - Scoped Thread Pool
// ============================================================================
//
// Package: pkg/jobpool
// Purpose: A fixed-size group of worker goroutines that runs short-lived
// closures ("jobs") in parallel, with structured-concurrency scopes that let
// a caller block until a delimited batch of submitted jobs has drained.
//
// Design Pattern:
//   Worker pool + nested scope:
//   1. Fixed number of worker goroutines running continuously
//   2. Jobs distributed through a shared, optionally-unbounded queue
//   3. An admission counter bounds outstanding work (queued + running)
//   4. A scope is a stack-local handle whose destruction blocks until every
//      job submitted through it (directly or via a nested subscope) has run
//   5. An optional Observer is driven from real submit/dispatch/scope
//      events, for callers that want to expose pool activity as metrics
//
// Architecture Components:
//   ┌──────────────┐
//   │  Submitter   │ --Execute()--> messageQueue
//   └──────────────┘
//          │
//   ┌──────▼──────┐        ┌────────┐
//   │    Pool     │◄──────►│ worker │ (n_workers goroutines)
//   │ globalCount │        └────────┘
//   └──────┬──────┘
//          │ execute_inside_scope
//   ┌──────▼──────┐
//   │    Scope    │  scopeCount.Join() blocks scope's destruction
//   └─────────────┘
//
// Lifecycle:
//   1. New(config) / NewObserved(config, obs) / WithSize(n) /
//      WithDefaultConfig() - construct
//   2. Execute(job) - submit a job, bounded by max_jobs
//   3. Scope(f) - run f with a fresh Scope; blocks on return until drained
//   4. Join() - block until the pool's global counter reaches zero
//   5. Close() - stop all workers (equivalent of the Rust crate's Drop)
//
// Concurrency Control:
//   - messageQueue: mutex + sync.Cond guarded linked list; bounded iff
//     IncomingBufSize is set to a nonzero value, otherwise genuinely unbounded
//   - counter: mutex + sync.Cond guarded uint, supports bounded inc/dec/join
//   - Pool.workers: only mutated at construction and Close (owning goroutine)
//
// Error Handling:
//   - Configuration errors are returned from New/WithSize as plain errors
//   - A panicking job is recovered inside the worker; counters still
//     decrement; the worker keeps servicing the queue
//
// ============================================================================

package jobpool
