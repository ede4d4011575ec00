// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

/*
Package middleware provides infrastructure HTTP middleware shared by the API
router.

Key Components:

  - RequestID: request and correlation IDs for log tracing
  - PrometheusMetrics: request counts and latency, labelled by chi route
    pattern so content IDs never become label values
  - ClientIP: resolves the address the edge will see, honouring
    X-Forwarded-For and X-Real-IP only from trusted proxies

All middleware has the func(http.Handler) http.Handler shape expected by
chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(resolver.Middleware)

See Also:

  - internal/auth: authentication middleware
  - internal/authz: authorization middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
