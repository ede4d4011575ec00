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
	"time"
)

// Roles as they appear in Casbin policy. Token roles are matched
// case-insensitively, so "ADMIN" in a token is RoleAdmin here.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates credentials have expired.
	ErrExpiredCredentials = errors.New("credentials expired")
)

// Authenticator extracts and verifies credentials from a request.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error)
	Name() string
}

// AuthSubject is a verified caller.
type AuthSubject struct {
	ID        string   `json:"id"`
	Email     string   `json:"email,omitempty"`
	Name      string   `json:"name,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Issuer    string   `json:"issuer,omitempty"`
	ExpiresAt int64    `json:"expires_at,omitempty"`
}

// HasRole checks if the subject has a specific role.
func (s *AuthSubject) HasRole(role string) bool {
	if s == nil || role == "" {
		return false
	}
	for _, r := range s.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// IsExpired checks if the authentication has expired.
func (s *AuthSubject) IsExpired(now time.Time) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return now.Unix() > s.ExpiresAt
}

// AuthSubjectFromClaims normalizes verified claims. The role is lowercased.
func AuthSubjectFromClaims(claims *Claims) *AuthSubject {
	if claims == nil {
		return nil
	}
	subject := &AuthSubject{
		ID:     claims.ID,
		Email:  claims.Email,
		Name:   claims.Name,
		Issuer: claims.Issuer,
	}
	if role := strings.ToLower(strings.TrimSpace(claims.Role)); role != "" {
		subject.Roles = []string{role}
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return subject
}
