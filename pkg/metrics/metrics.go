// Package metrics provides Prometheus collectors for the NetSuite tap.
//
// # Overview
//
// The metrics package provides:
//   - Pre-defined collectors for fetch, post and HTTP traffic
//   - Throughput tracking per stream
//   - A Timer for measuring operation durations
//
// # Basic Usage
//
//	c := metrics.Default()
//	timer := metrics.NewTimer("fetch")
//	n := drain(stream)
//	c.ObserveFetch("Invoice", n, timer.Stop(), nil)
//
// Collectors register on the registerer passed to NewCollector; Default uses
// the Prometheus default registerer so /metrics exposes them.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tap_netsuite"

// Collector groups the tap's Prometheus metrics.
type Collector struct {
	recordsFetched *prometheus.CounterVec   // records yielded per stream
	fetchDuration  *prometheus.HistogramVec // time to drain a stream
	fetches        *prometheus.CounterVec   // fetch outcomes per stream
	posts          *prometheus.CounterVec   // post outcomes per stream
	postDuration   *prometheus.HistogramVec // upsert latency
	activeStreams  prometheus.Gauge         // streams currently being extracted
	httpRequests   *prometheus.CounterVec   // HTTP calls by method and status
	httpDuration   *prometheus.HistogramVec // HTTP latency by method
	throughput     *prometheus.GaugeVec     // records per second per stream
	startTime      time.Time
}

var (
	defaultOnce      sync.Once
	defaultCollector *Collector
)

// Default returns the collector registered on the Prometheus default registerer.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// NewCollector creates and registers the tap's metrics on reg.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	c := metrics.NewCollector(reg)
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		recordsFetched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_fetched_total",
			Help:      "Total number of records fetched",
		}, []string{"stream"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time to drain one stream",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
		}, []string{"stream"}),
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Stream fetches by outcome",
		}, []string{"stream", "status"}),
		posts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_total",
			Help:      "Write-back posts by outcome",
		}, []string{"stream", "status"}),
		postDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "post_duration_seconds",
			Help:      "Write-back latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stream"}),
		activeStreams: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streams",
			Help:      "Streams currently being extracted",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests to NetSuite by method and status code",
		}, []string{"method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		throughput: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "throughput_records_per_second",
			Help:      "Current throughput in records per second",
		}, []string{"stream"}),
		startTime: time.Now(),
	}
}

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

// StreamStarted marks a stream as being extracted
func (c *Collector) StreamStarted() {
	c.activeStreams.Inc()
}

// ObserveFetch records the outcome of draining a stream
func (c *Collector) ObserveFetch(stream string, records int, d time.Duration, err error) {
	c.activeStreams.Dec()
	c.recordsFetched.WithLabelValues(stream).Add(float64(records))
	c.fetchDuration.WithLabelValues(stream).Observe(d.Seconds())
	c.fetches.WithLabelValues(stream, status(err)).Inc()
}

// ObservePost records the outcome of one write-back
func (c *Collector) ObservePost(stream string, d time.Duration, err error) {
	c.posts.WithLabelValues(stream, status(err)).Inc()
	c.postDuration.WithLabelValues(stream).Observe(d.Seconds())
}

// ObserveHTTP records one HTTP exchange; code 0 means no response
func (c *Collector) ObserveHTTP(method string, code int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It may be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks records per second for one stream.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
	stream    string
	gauge     *prometheus.GaugeVec
}

// NewThroughputTracker creates a tracker reporting into c.
func (c *Collector) NewThroughputTracker(stream string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		stream:    stream,
		gauge:     c.throughput,
	}
}

// Increment adds n to the record count.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset computes records per second since the last reset, publishes
// it and resets the counter.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed
	t.count = 0
	t.lastReset = time.Now()
	t.gauge.WithLabelValues(t.stream).Set(throughput)
	return throughput
}
