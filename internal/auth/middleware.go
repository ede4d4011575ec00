// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/streamai/internal/logging"
)

type contextKey string

// AuthSubjectContextKey is the context key for AuthSubject.
const AuthSubjectContextKey contextKey = "auth_subject"

const authErrorContextKey contextKey = "auth_error"

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware attaches verified identities to request contexts.
type Middleware struct {
	authenticator Authenticator
	onError       ErrorWriter
}

// NewMiddleware creates middleware around authenticator.
func NewMiddleware(authenticator Authenticator) *Middleware {
	return &Middleware{
		authenticator: authenticator,
		onError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
		},
	}
}

// WithErrorWriter replaces the plain-text 401 used by Require.
func (m *Middleware) WithErrorWriter(fn ErrorWriter) *Middleware {
	if fn != nil {
		m.onError = fn
	}
	return m
}

// Identify authenticates the request when credentials are present. It
// never rejects: failures leave the context without a subject.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.authenticator.Authenticate(r.Context(), r)
		if err != nil {
			if !errors.Is(err, ErrNoCredentials) {
				logging.Ctx(r.Context()).Debug().
					Err(err).
					Str("authenticator", m.authenticator.Name()).
					Msg("Credential rejected")
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authErrorContextKey, err)))
			return
		}
		logging.Ctx(r.Context()).Debug().
			Str("subject", subject.ID).
			Str("email", logging.RedactEmail(subject.Email)).
			Strs("roles", subject.Roles).
			Msg("Authenticated")
		next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
	})
}

// Require rejects requests that Identify left without a subject.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAuthSubject(r.Context()) == nil {
			err := AuthError(r.Context())
			if err == nil {
				err = ErrNoCredentials
			}
			m.onError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithSubject returns ctx carrying subject.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, AuthSubjectContextKey, subject)
}

// GetAuthSubject returns the verified subject, or nil.
func GetAuthSubject(ctx context.Context) *AuthSubject {
	subject, _ := ctx.Value(AuthSubjectContextKey).(*AuthSubject)
	return subject
}

// AuthError returns why Identify left the context without a subject.
func AuthError(ctx context.Context) error {
	err, _ := ctx.Value(authErrorContextKey).(error)
	return err
}
