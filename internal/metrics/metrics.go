// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package metrics holds the Prometheus collectors for StreamAI.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamai_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamai_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Authorization Issuer Metrics
	GrantsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_grants_issued_total",
			Help: "Access grants handed out, by transport",
		},
		[]string{"transport"}, // signed-hls, passthrough
	)

	AuthorizeDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_authorize_denied_total",
			Help: "Authorize calls that did not produce a grant, by reason",
		},
		[]string{"reason"}, // unauthorized, forbidden, not_found, signing_failure, catalog_unavailable
	)

	SigningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamai_signing_duration_seconds",
			Help:    "Time spent computing a link signature",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.001},
		},
	)

	// Catalog Metrics
	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_catalog_cache_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamai_catalog_items",
			Help: "Content items in the loaded catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_catalog_reloads_total",
			Help: "Catalog reload attempts by result",
		},
		[]string{"result"}, // success, failure, unchanged
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_authz_decisions_total",
			Help: "Casbin entitlement decisions by object, action and result",
		},
		[]string{"object", "action", "result"}, // allow, deny, error
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamai_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamai_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Audit Metrics
	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamai_audit_events_dropped_total",
			Help: "Audit events dropped because the buffer was full",
		},
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

// RecordGrant counts an issued grant.
func RecordGrant(transport string) {
	GrantsIssued.WithLabelValues(transport).Inc()
}

// RecordDenied counts a refused authorization.
func RecordDenied(reason string) {
	AuthorizeDenied.WithLabelValues(reason).Inc()
}

// RecordCacheLookup counts a catalog cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CatalogCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CatalogCacheLookups.WithLabelValues("miss").Inc()
}
