package jobpool

import "fmt"

// ============================================================================
// Pool Config
// Purpose: Flat, immutable-after-construction options bag consumed by New.
// ============================================================================

// defaultNWorkers matches the original crate's PoolConfigBuilder default.
const defaultNWorkers uint16 = 16

// PoolConfig configures a Pool.
//
// NWorkers must be at least 1. MaxJobs, if set, caps the number of jobs
// outstanding (queued + running) pool-wide, and must be at least NWorkers.
// IncomingBufSize, if set to a nonzero value, makes the submission queue
// bounded at that capacity; otherwise (unset or 0) the queue grows without
// bound and a submitter never blocks on enqueue.
type PoolConfig struct {
	NWorkers        uint16
	MaxJobs         *uint16
	IncomingBufSize *uint16
}

// DefaultConfig returns the package default configuration: 16 workers, no
// job cap, no buffer cap.
func DefaultConfig() PoolConfig {
	return ConfigBuilder().Build()
}

// Validate checks the configuration against the two documented invariants.
// The error strings are part of the package's stable contract.
func (c PoolConfig) Validate() error {
	if c.NWorkers == 0 {
		return fmt.Errorf("Invalid pool size: 0")
	}
	if c.MaxJobs != nil && *c.MaxJobs < c.NWorkers {
		return fmt.Errorf("Max number of jobs (%d) is lower than the number of workers (%d)",
			*c.MaxJobs, c.NWorkers)
	}
	return nil
}

// Builder is a fluent constructor for PoolConfig, mirroring the original
// crate's PoolConfigBuilder.
type Builder struct {
	nWorkers        uint16
	maxJobs         *uint16
	incomingBufSize *uint16
}

// ConfigBuilder starts a new Builder pre-populated with the package default
// worker count.
func ConfigBuilder() *Builder {
	return &Builder{nWorkers: defaultNWorkers}
}

// NWorkers sets the worker count.
func (b *Builder) NWorkers(n uint16) *Builder {
	b.nWorkers = n
	return b
}

// MaxJobs sets the pool-wide outstanding job cap.
func (b *Builder) MaxJobs(n uint16) *Builder {
	b.maxJobs = &n
	return b
}

// IncomingBufSize sets the submission queue's capacity (0 leaves it unbounded).
func (b *Builder) IncomingBufSize(n uint16) *Builder {
	b.incomingBufSize = &n
	return b
}

// Build produces the PoolConfig. It does not validate; call Validate (or
// New, which validates internally) to check the result.
func (b *Builder) Build() PoolConfig {
	return PoolConfig{
		NWorkers:        b.nWorkers,
		MaxJobs:         b.maxJobs,
		IncomingBufSize: b.incomingBufSize,
	}
}
