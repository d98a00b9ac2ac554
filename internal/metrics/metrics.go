// ============================================================================
// jobpool Metrics - Prometheus Monitoring
// ============================================================================
//
// Package: internal/metrics
// File: metrics.go
// Purpose: Collect and expose Pool/Scope observability for Prometheus
//
// Collector implements pkg/jobpool.Observer, so a *Collector can be passed
// straight to jobpool.NewObserved and driven from real pool activity instead
// of sitting idle. Each Collector owns a private prometheus.Registry rather
// than registering against the global default: that lets a process (or a
// test binary) construct more than one Collector, which matters for
// internal/cli, where demo/bench/serve-metrics may each build their own pool
// and collector in the same run.
//
// Metric Categories:
//
//   1. Job Counters - Cumulative, monotonically increasing:
//      - jobpool_jobs_submitted_total: Total jobs submitted (pool + scope)
//      - jobpool_jobs_completed_total: Total jobs that ran to completion
//      - jobpool_jobs_panicked_total: Total jobs whose body panicked
//
//   2. Performance Metrics (Histogram):
//      - jobpool_job_latency_seconds: Wall-clock time of one job body, timed
//        by the worker from dispatch to return (queue wait is not included)
//
//   3. Status Metrics (Gauge) - Instantaneous values:
//      - jobpool_jobs_pending: Pool.PendingJobs() snapshot
//      - jobpool_admission_blocked: 1 while a submitter is blocked on the
//        admission counter (MaxJobs reached), 0 otherwise
//      - jobpool_scope_depth: Current nesting depth of open scopes
//
// HTTP Endpoint:
//   Exposed via /metrics, scraped by Prometheus. Default port: 9090.
//   Served from the Collector's own registry via Collector.StartServer, not
//   the global promhttp.Handler(), so what's served always matches what this
//   particular Collector was fed.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects jobpool Prometheus metrics against its own registry.
type Collector struct {
	registry *prometheus.Registry

	jobsSubmitted prometheus.Counter
	jobsCompleted prometheus.Counter
	jobsPanicked  prometheus.Counter

	jobLatency prometheus.Histogram

	jobsPending      prometheus.Gauge
	admissionBlocked prometheus.Gauge
	scopeDepth       prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics against a
// fresh, private prometheus.Registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		jobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobpool_jobs_submitted_total",
			Help: "Total number of jobs submitted to the pool",
		}),
		jobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobpool_jobs_completed_total",
			Help: "Total number of jobs that ran to completion (including panics)",
		}),
		jobsPanicked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobpool_jobs_panicked_total",
			Help: "Total number of jobs whose body panicked",
		}),
		jobLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobpool_job_latency_seconds",
			Help:    "Per-job execution latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		jobsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobpool_jobs_pending",
			Help: "Current number of jobs queued or running pool-wide",
		}),
		admissionBlocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobpool_admission_blocked",
			Help: "1 while at least one submitter is blocked on the admission cap",
		}),
		scopeDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobpool_scope_depth",
			Help: "Current nesting depth of open scopes",
		}),
	}

	c.registry.MustRegister(
		c.jobsSubmitted, c.jobsCompleted, c.jobsPanicked,
		c.jobLatency, c.jobsPending, c.admissionBlocked, c.scopeDepth,
	)

	return c
}

// RecordSubmit records a job submission.
func (c *Collector) RecordSubmit() {
	c.jobsSubmitted.Inc()
}

// RecordCompleted records a job finishing (successfully or not) with its
// execution latency.
func (c *Collector) RecordCompleted(latencySeconds float64, panicked bool) {
	c.jobsCompleted.Inc()
	c.jobLatency.Observe(latencySeconds)
	if panicked {
		c.jobsPanicked.Inc()
	}
}

// SetPending updates the jobs-pending gauge from Pool.PendingJobs.
func (c *Collector) SetPending(n int) {
	c.jobsPending.Set(float64(n))
}

// SetAdmissionBlocked updates whether a submitter is currently parked on the
// admission cap.
func (c *Collector) SetAdmissionBlocked(blocked bool) {
	v := 0.0
	if blocked {
		v = 1.0
	}
	c.admissionBlocked.Set(v)
}

// SetScopeDepth updates the open-scope nesting depth gauge.
func (c *Collector) SetScopeDepth(depth int) {
	c.scopeDepth.Set(float64(depth))
}

// Handler returns an http.Handler serving this Collector's metrics in the
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StartServer starts the Prometheus metrics HTTP server for this Collector.
// It blocks; callers typically run it in its own goroutine.
func (c *Collector) StartServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, mux)
}
