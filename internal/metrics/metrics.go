// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package metrics exposes Prometheus instrumentation for the ranking
// service: request latency and status, per-provider outcomes, result cache
// efficiency, and query log health.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking Request Metrics
	RankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rank_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"status"}, // "ok", "partial", "no_signals_available", "invalid", "error"
	)

	RankRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rank_request_duration_seconds",
			Help:    "End-to-end ranking request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"cache_hit"},
	)

	RankResultCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_result_count",
			Help:    "Number of results returned per ranking request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Provider Metrics
	ProviderOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rank_provider_outcomes_total",
			Help: "Signal provider call outcomes",
		},
		[]string{"provider", "outcome"}, // "contributed", "empty", "failed"
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rank_provider_duration_seconds",
			Help:    "Signal provider compute duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"provider"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	CoalescedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_coalesced_requests_total",
			Help: "Requests served by joining an identical in-flight computation",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rank_cache_entries",
			Help: "Current number of cached ranking responses",
		},
	)

	// Query Log Metrics
	QueryLogAppends = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "querylog_appends_total",
			Help: "Total number of queries appended to the query log",
		},
	)

	QueryLogDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "querylog_dropped_total",
			Help: "Queries dropped because the query log buffer was full",
		},
	)

	// Content Store Metrics
	ContentStoreItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "content_store_items",
			Help: "Current number of candidate items in the content store",
		},
	)

	// API Metrics
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRankRequest records one completed ranking request.
func RecordRankRequest(status string, cacheHit bool, results int, duration time.Duration) {
	RankRequestsTotal.WithLabelValues(status).Inc()
	RankRequestDuration.WithLabelValues(strconv.FormatBool(cacheHit)).Observe(duration.Seconds())
	RankResultCount.Observe(float64(results))
}
