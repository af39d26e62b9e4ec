// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package metrics defines the Prometheus collectors of the service. They are
// registered on the default registry and served by promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/shelfwise/internal/events"
	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
	)

	// Recommendation cache
	RecommendationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_lookups_total",
			Help: "Recommendation cache lookups by entry kind and outcome",
		},
		[]string{"kind", "outcome"}, // outcome: hit, miss, error
	)

	// Recommendation computation
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_compute_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_compute_errors_total",
			Help: "Total number of failed recommendation computations",
		},
		[]string{"operation"},
	)

	// Batch generation
	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_batch_runs_total",
			Help: "Total number of batch generation runs",
		},
		[]string{"status"}, // success, partial
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_batch_duration_seconds",
			Help:    "Duration of batch generation runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	BatchEntriesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_batch_entries_written_total",
			Help: "Cache entries written by batch generation",
		},
		[]string{"kind"},
	)

	BatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_batch_failures_total",
			Help: "Keys that batch generation could not compute or write",
		},
	)

	BatchLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendation_batch_last_success_timestamp",
			Help: "Unix timestamp of the last batch run without failures",
		},
	)

	// Interactions
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of recorded interactions",
		},
		[]string{"kind"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts one rejected request.
func RecordRateLimitHit() {
	APIRateLimitHits.Inc()
}

// RecordInteraction counts one stored interaction.
func RecordInteraction(kind models.InteractionKind) {
	InteractionsRecorded.WithLabelValues(string(kind)).Inc()
}

// Observer feeds engine events into the collectors. It implements
// recommend.Observer.
type Observer struct{}

var _ recommend.Observer = Observer{}

// CacheLookup counts a cache read.
func (Observer) CacheLookup(kind models.EntryKind, outcome string) {
	RecommendationCacheLookups.WithLabelValues(string(kind), outcome).Inc()
}

// Computed records a computation.
func (Observer) Computed(operation string, duration time.Duration, err error) {
	RecommendationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		RecommendationErrors.WithLabelValues(operation).Inc()
	}
}

// Generated records a finished batch run.
func (Observer) Generated(report *recommend.GenerateReport) {
	if report == nil {
		return
	}
	BatchDuration.Observe(report.Duration.Seconds())
	BatchEntriesWritten.WithLabelValues(string(models.EntryContentBased)).Add(float64(report.ContentEntries))
	BatchEntriesWritten.WithLabelValues(string(models.EntryCollaborative)).Add(float64(report.CollaborativeEntries))
	BatchFailures.Add(float64(report.Failures))

	if report.Failures > 0 {
		BatchRunsTotal.WithLabelValues("partial").Inc()
		return
	}
	BatchRunsTotal.WithLabelValues("success").Inc()
	BatchLastSuccess.Set(float64(report.StartedAt.Add(report.Duration).Unix()))
}

// EventStatsSource reports cumulative event bus counters.
type EventStatsSource interface {
	Stats() events.Stats
}

// RegisterEventStats exposes the bus counters on reg. It fails if they are
// already registered.
func RegisterEventStats(reg prometheus.Registerer, src EventStatsSource) error {
	counters := []struct {
		name, help string
		value      func(events.Stats) int64
	}{
		{"interaction_events_published_total", "Interaction events published on the bus", func(s events.Stats) int64 { return s.Published }},
		{"interaction_events_processed_total", "Interaction events applied to book metrics", func(s events.Stats) int64 { return s.Processed }},
		{"interaction_events_failed_total", "Interaction events moved to the dead letter topic", func(s events.Stats) int64 { return s.Failed }},
		{"interaction_events_malformed_total", "Interaction events dropped as malformed", func(s events.Stats) int64 { return s.Malformed }},
	}
	for _, c := range counters {
		value := c.value
		collector := prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: c.name, Help: c.help},
			func() float64 { return float64(value(src.Stats())) },
		)
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
