// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/authz"
	"github.com/tomtom215/streamai/internal/middleware"
)

// Router wires handlers to routes and middleware.
type Router struct {
	handler       *Handler
	authn         *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
	clientIP      *middleware.ClientIPResolver
}

// NewRouter builds a router. enforcer may be nil, in which case the admin
// routes are not mounted. chiMW and clientIP fall back to defaults when nil.
func NewRouter(handler *Handler, authenticator auth.Authenticator, enforcer *authz.Enforcer, chiMW *ChiMiddleware, clientIP *middleware.ClientIPResolver) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	if clientIP == nil {
		clientIP, _ = middleware.NewClientIPResolver(nil)
	}
	router := &Router{
		handler:       handler,
		authn:         auth.NewMiddleware(authenticator).WithErrorWriter(authErrorWriter),
		chiMiddleware: chiMW,
		clientIP:      clientIP,
	}
	if enforcer != nil {
		router.authz = authz.NewMiddleware(enforcer, denyWriter)
	}
	return router
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.clientIP.Middleware)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Playback Authorization
	// ========================
	// Identify never rejects; the issuer decides, so every outcome is
	// audited and counted in one place.
	r.Route("/api/stream", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("stream"))
		r.Use(router.authn.Identify)

		r.Get("/authorize/{contentId}", router.handler.AuthorizeStream)
	})

	// ========================
	// Admin Endpoints
	// ========================
	if router.authz != nil {
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit("admin"))
			r.Use(router.authn.Identify)
			r.Use(router.authn.Require)
			r.Use(router.authz.Authorize(authz.ObjectAudit, authz.ActionRead))

			r.Get("/audit", router.handler.ListAuditEvents)
		})
	}

	return r
}
