// ============================================================================
// jobpool C ABI - cgo Bridge
// ============================================================================
//
// Package: internal/cabi
// File: cabi.go
// Purpose: Expose pkg/jobpool.Pool to C callers via a fixed-layout C ABI
//
// Mirrors the original crate's ffi module: a PoolConfig value with sentinel
// -1 fields standing in for the optional MaxJobs/IncomingBufSize, and five
// exported functions (pool_default_conf, pool_init, pool_execute_job,
// pool_join, pool_free) operating on an opaque pool handle.
//
// Handle representation: C cannot hold a Go pointer across calls safely, so
// the opaque pointer pool_init returns is a runtime/cgo.Handle value
// disguised as an unsafe.Pointer rather than a direct *jobpool.Pool. pool_free releases the
// handle and lets the garbage collector reclaim the Pool.
//
// ============================================================================

//go:build cgo

package cabi

/*
#include <stdint.h>

typedef struct {
	uint16_t n_workers;
	int32_t  max_jobs;
	int32_t  incoming_buf_size;
} jobpool_PoolConfig;

typedef void (*jobpool_job_fn)(void);

static inline void jobpool_call_job(jobpool_job_fn f) {
	f();
}
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/ChuLiYu/jobpool/pkg/jobpool"
)

// pool_default_conf returns a PoolConfig with jobpool.DefaultConfig's worker
// count and both optional fields set to the sentinel -1 ("absent").
//
//export pool_default_conf
func pool_default_conf() C.jobpool_PoolConfig {
	d := jobpool.DefaultConfig()
	return C.jobpool_PoolConfig{
		n_workers:         C.uint16_t(d.NWorkers),
		max_jobs:          -1,
		incoming_buf_size: -1,
	}
}

func convertConfig(conf C.jobpool_PoolConfig) jobpool.PoolConfig {
	b := jobpool.ConfigBuilder().NWorkers(uint16(conf.n_workers))
	if conf.max_jobs > 0 {
		b = b.MaxJobs(uint16(conf.max_jobs))
	}
	if conf.incoming_buf_size > 0 {
		b = b.IncomingBufSize(uint16(conf.incoming_buf_size))
	}
	return b.Build()
}

// pool_init constructs a Pool from conf and returns an opaque handle, or
// NULL if the configuration is invalid.
//
//export pool_init
func pool_init(conf C.jobpool_PoolConfig) unsafe.Pointer {
	pool, err := jobpool.New(convertConfig(conf))
	if err != nil {
		return nil
	}
	h := cgo.NewHandle(pool)
	return unsafe.Pointer(uintptr(h))
}

func poolFromHandle(p unsafe.Pointer) *jobpool.Pool {
	h := cgo.Handle(uintptr(p))
	return h.Value().(*jobpool.Pool)
}

// pool_execute_job submits a zero-argument C function pointer as a job.
//
//export pool_execute_job
func pool_execute_job(p unsafe.Pointer, f C.jobpool_job_fn) {
	pool := poolFromHandle(p)
	pool.Execute(func() {
		C.jobpool_call_job(f)
	})
}

// pool_join blocks until every submitted job has completed.
//
//export pool_join
func pool_join(p unsafe.Pointer) {
	poolFromHandle(p).Join()
}

// pool_free shuts the pool down and releases its handle. A NULL pointer is
// a no-op, matching the original's null check.
//
//export pool_free
func pool_free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	h := cgo.Handle(uintptr(p))
	h.Value().(*jobpool.Pool).Close()
	h.Delete()
}
