// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package api

import (
	"context"
	"time"

	"github.com/tomtom215/streamai/internal/audit"
	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/stream"
)

// Authorizer issues grants. *stream.Issuer implements it.
type Authorizer interface {
	Authorize(ctx context.Context, contentID string, subject *auth.AuthSubject, clientIP string) (*stream.Grant, error)
}

// AuditReader serves the admin audit listing. *audit.Logger implements it.
type AuditReader interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// ReadinessCheck returns nil when a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler contains dependencies for API handlers.
//
//   - handlers_stream.go: playback authorization
//   - handlers_audit.go: admin audit listing
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	authorizer Authorizer
	audit      AuditReader
	checks     map[string]ReadinessCheck
	startTime  time.Time
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithAuditReader enables GET /api/admin/audit.
func WithAuditReader(a AuditReader) HandlerOption {
	return func(h *Handler) { h.audit = a }
}

// WithReadinessCheck adds a named dependency to the readiness probe.
func WithReadinessCheck(name string, check ReadinessCheck) HandlerOption {
	return func(h *Handler) { h.checks[name] = check }
}

// NewHandler creates the API handler set.
func NewHandler(authorizer Authorizer, opts ...HandlerOption) *Handler {
	h := &Handler{
		authorizer: authorizer,
		checks:     make(map[string]ReadinessCheck),
		startTime:  time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
