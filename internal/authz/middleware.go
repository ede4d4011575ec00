// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package authz

import (
	"errors"
	"net/http"

	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/logging"
)

var (
	// ErrUnauthenticated means no subject reached the authorization check.
	ErrUnauthenticated = errors.New("authz: no authenticated subject")

	// ErrDenied means the subject lacks the permission.
	ErrDenied = errors.New("authz: permission denied")
)

// DenyWriter renders a refused request. err is ErrUnauthenticated,
// ErrDenied, or an enforcement failure.
type DenyWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware guards routes with Casbin decisions.
type Middleware struct {
	enforcer *Enforcer
	onDeny   DenyWriter
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer, onDeny DenyWriter) *Middleware {
	if onDeny == nil {
		onDeny = plainDeny
	}
	return &Middleware{enforcer: enforcer, onDeny: onDeny}
}

// Authorize returns middleware enforcing object/action for the subject
// that auth.Middleware attached to the request.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := auth.GetAuthSubject(r.Context())
			if subject == nil {
				m.onDeny(w, r, ErrUnauthenticated)
				return
			}

			allowed, err := m.enforcer.EnforceWithRoles(subject.ID, subject.Roles, object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				m.onDeny(w, r, err)
				return
			}
			if !allowed {
				m.onDeny(w, r, ErrDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func plainDeny(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
	case errors.Is(err, ErrDenied):
		http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
