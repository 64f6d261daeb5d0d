// Package metrics provides Prometheus metrics for the Forge scoring core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "forge"
)

// Event lifecycle metrics.
var (
	eventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_ingested_total",
		Help:      "Events accepted into the append-only event log.",
	})
	eventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_duplicate_total",
		Help:      "Events rejected as duplicates by the idempotency guard.",
	})
	eventsInvalidScope = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_invalid_scope_total",
		Help:      "Events dropped because they carried neither a player nor a team scope.",
	})
	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Events consumed by the orchestrator drain loop.",
	})
	unprocessedEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_unprocessed",
		Help:      "Events currently waiting for the next drain cycle.",
	})
)

// Recompute and drain metrics.
var (
	playersRecomputed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "players_recomputed_total",
		Help:      "Player-week records recomputed by event drains.",
	})
	recomputeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recompute_failures_total",
		Help:      "Per-player recompute failures isolated inside a drain cycle.",
	})
	drainCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "drain_cycle_duration_seconds",
		Help:      "Wall time of a full orchestrator drain cycle.",
		Buckets:   prometheus.DefBuckets,
	})
	playersTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "players_tracked",
		Help:      "Player-week records currently held for the active week.",
	})
)

// Ranking and cache metrics.
var (
	rankingRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_rebuilds_total",
		Help:      "Successful per-type ranking board rebuilds.",
	})
	rankingRebuildFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_rebuild_failures_total",
		Help:      "Ranking rebuilds that aborted leaving the previous board intact.",
	})
	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Cache invalidation signals fired after drain cycles.",
	})
)

// HTTP metrics.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status"})
)

// RecordEventIngested increments the ingested-event counter.
func RecordEventIngested() { eventsIngested.Inc() }

// RecordEventDuplicate increments the duplicate-event counter.
func RecordEventDuplicate() { eventsDuplicate.Inc() }

// RecordEventInvalidScope increments the invalid-scope counter.
func RecordEventInvalidScope() { eventsInvalidScope.Inc() }

// RecordEventProcessed increments the processed-event counter.
func RecordEventProcessed() { eventsProcessed.Inc() }

// UpdateUnprocessedEvents sets the pending-event gauge.
func UpdateUnprocessedEvents(n int) { unprocessedEvents.Set(float64(n)) }

// RecordPlayersRecomputed adds n to the recomputed-player counter.
func RecordPlayersRecomputed(n int) { playersRecomputed.Add(float64(n)) }

// RecordRecomputeFailure increments the isolated-failure counter.
func RecordRecomputeFailure() { recomputeFailures.Inc() }

// RecordDrainCycleDuration observes a drain cycle duration in seconds.
func RecordDrainCycleDuration(seconds float64) { drainCycleDuration.Observe(seconds) }

// UpdatePlayersTracked sets the tracked-player gauge.
func UpdatePlayersTracked(n int) { playersTracked.Set(float64(n)) }

// RecordRankingRebuild increments the rebuild counter.
func RecordRankingRebuild() { rankingRebuilds.Inc() }

// RecordRankingRebuildFailure increments the rebuild-failure counter.
func RecordRankingRebuildFailure() { rankingRebuildFailures.Inc() }

// RecordCacheInvalidation increments the invalidation counter.
func RecordCacheInvalidation() { cacheInvalidations.Inc() }

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes HTTP request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
