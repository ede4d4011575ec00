// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/authz"
	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/stream"
)

// writeStreamError maps an Authorize failure to a status. ErrForbidden is
// checked before ErrUnauthorized because it wraps it. Messages are fixed
// strings so no internal detail reaches the client.
func writeStreamError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, stream.ErrForbidden):
		rw.Forbidden("Not entitled to stream this content")
	case errors.Is(err, stream.ErrUnauthorized):
		rw.Unauthorized("Authentication required")
	case errors.Is(err, stream.ErrNotFound):
		rw.NotFound("Content not found")
	case errors.Is(err, stream.ErrCatalogUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Catalog unavailable during authorize")
		rw.ServiceUnavailable("Catalog temporarily unavailable")
	default:
		// signing failures are logged, rate limited, by the issuer
		rw.Error(http.StatusInternalServerError, ErrCodeSigningFailure, "Unable to authorize stream")
	}
}

// authErrorWriter renders authentication failures from auth.Middleware.
func authErrorWriter(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	switch {
	case errors.Is(err, auth.ErrExpiredCredentials):
		rw.Unauthorized("Token expired")
	case errors.Is(err, auth.ErrInvalidCredentials):
		rw.Unauthorized("Invalid token")
	default:
		rw.Unauthorized("Authentication required")
	}
}

// denyWriter renders authorization failures from authz.Middleware.
func denyWriter(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		rw.Unauthorized("Authentication required")
	case errors.Is(err, authz.ErrDenied):
		rw.Forbidden("Insufficient permissions")
	default:
		rw.InternalError("Authorization check failed")
	}
}
