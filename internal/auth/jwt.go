// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/streamai/internal/config"
)

// Claims are the session claims issued by the web application.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 session tokens.
type JWTManager struct {
	secret     []byte
	issuer     string
	timeout    time.Duration
	requireExp bool
	now        func() time.Time
}

// NewJWTManager creates a manager from the security configuration.
// An empty JWT secret is an error.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &JWTManager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		timeout:    timeout,
		requireExp: cfg.JWTRequireExp,
		now:        time.Now,
	}, nil
}

// GenerateToken signs a token for the given identity. A zero ttl uses the
// configured session timeout.
func (m *JWTManager) GenerateToken(id, email, name, role string, ttl time.Duration) (string, error) {
	if id == "" {
		return "", errors.New("token subject id is required")
	}
	if ttl <= 0 {
		ttl = m.timeout
	}
	now := m.now()
	claims := &Claims{
		ID:    id,
		Email: email,
		Role:  role,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, algorithm, expiry and (when configured)
// issuer, and returns the claims. Only HS256 is accepted.
//
// The web application signs session tokens without an exp claim. Unless
// expiry is required, such a token is accepted while its iat lies within
// the session timeout; a token with neither exp nor iat is rejected.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.requireExp {
		opts = append(opts, jwt.WithExpirationRequired())
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.ExpiresAt == nil {
		if err := m.checkSessionAge(claims); err != nil {
			return nil, err
		}
	}
	if claims.ID == "" {
		claims.ID = claims.Subject
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token has no subject id")
	}
	return claims, nil
}

// checkSessionAge bounds a token without exp by its issue time.
func (m *JWTManager) checkSessionAge(claims *Claims) error {
	if claims.IssuedAt == nil {
		return fmt.Errorf("token has neither exp nor iat: %w", jwt.ErrTokenRequiredClaimMissing)
	}
	if m.now().Sub(claims.IssuedAt.Time) > m.timeout {
		return fmt.Errorf("token issued more than %s ago: %w", m.timeout, jwt.ErrTokenExpired)
	}
	return nil
}
