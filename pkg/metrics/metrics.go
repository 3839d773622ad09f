// Package metrics records client-side request, cache and fallback counters
// with Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the transport, deduplicator and services report to
type Recorder interface {
	RecordRequest(action string, statusCode int, d time.Duration)
	RecordDedup(action string, hit bool)
	RecordFallback(kind string, source string)
}

// Collector is the Prometheus implementation of Recorder
type Collector struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	dedup     *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forumctl_requests_total",
			Help: "Backend requests by action and HTTP status (0 = network error)",
		}, []string{"action", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forumctl_request_duration_seconds",
			Help:    "Backend request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		dedup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forumctl_dedup_lookups_total",
			Help: "Dedup cache lookups by action and outcome",
		}, []string{"action", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forumctl_degraded_reads_total",
			Help: "Reads served from a snapshot or sample data instead of the backend",
		}, []string{"kind", "source"}),
	}

	reg.MustRegister(c.requests, c.latency, c.dedup, c.fallbacks)
	return c
}

func (c *Collector) RecordRequest(action string, statusCode int, d time.Duration) {
	c.requests.WithLabelValues(action, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(action).Observe(d.Seconds())
}

func (c *Collector) RecordDedup(action string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	c.dedup.WithLabelValues(action, outcome).Inc()
}

func (c *Collector) RecordFallback(kind string, source string) {
	c.fallbacks.WithLabelValues(kind, source).Inc()
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordDedup(string, bool)                 {}
func (Nop) RecordFallback(string, string)            {}
