// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookieName is the cookie the web application stores its token in.
const TokenCookieName = "token"

// JWTAuthenticator verifies HS256 tokens from the Authorization header or,
// failing that, the web application's token cookie.
type JWTAuthenticator struct {
	manager *JWTManager
	cookie  string
}

// NewJWTAuthenticator returns an authenticator backed by manager.
func NewJWTAuthenticator(manager *JWTManager) *JWTAuthenticator {
	return &JWTAuthenticator{manager: manager, cookie: TokenCookieName}
}

// Authenticate returns ErrNoCredentials when no token is present,
// ErrExpiredCredentials for an expired token and ErrInvalidCredentials for
// anything else that fails verification.
func (a *JWTAuthenticator) Authenticate(_ context.Context, r *http.Request) (*AuthSubject, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		c, err := r.Cookie(a.cookie)
		if err != nil || c.Value == "" {
			return nil, ErrNoCredentials
		}
		raw = c.Value
	}

	claims, err := a.manager.ValidateToken(raw)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredCredentials
	case err != nil:
		return nil, ErrInvalidCredentials
	}
	return AuthSubjectFromClaims(claims), nil
}

// Name implements Authenticator.
func (a *JWTAuthenticator) Name() string { return "jwt" }

// bearerToken parses "Bearer <token>", case-insensitive on the scheme.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
