// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJWTAuthenticator_Authenticate(t *testing.T) {
	m := newTestManager(t)
	a := NewJWTAuthenticator(m)

	token, err := m.GenerateToken("u-1", "viewer@example.com", "Viewer", "USER", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expired, _ := m.GenerateToken("u-1", "", "", "USER", time.Hour)
	m.now = time.Now

	webApp := webAppToken(t, testJWTSecret, time.Now())
	staleWebApp := webAppToken(t, testJWTSecret, time.Now().Add(-2*time.Hour))

	tests := []struct {
		name    string
		setup   func(*http.Request)
		wantErr error
	}{
		{
			name:  "bearer header",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
		},
		{
			name:  "lowercase scheme",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token) },
		},
		{
			name:  "cookie",
			setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token}) },
		},
		{
			name: "header wins over cookie",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
				r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "garbage"})
			},
		},
		{
			name:  "web app token without exp",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+webApp) },
		},
		{
			name:    "web app token past session timeout",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+staleWebApp) },
			wantErr: ErrExpiredCredentials,
		},
		{
			name:    "no credentials",
			setup:   func(*http.Request) {},
			wantErr: ErrNoCredentials,
		},
		{
			name:    "basic scheme ignored",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			wantErr: ErrNoCredentials,
		},
		{
			name:    "empty bearer",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer   ") },
			wantErr: ErrNoCredentials,
		},
		{
			name:    "invalid token",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-token") },
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "expired token",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) },
			wantErr: ErrExpiredCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/stream/authorize/42", nil)
			tt.setup(req)

			subject, err := a.Authenticate(context.Background(), req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if subject.ID != "u-1" || !subject.HasRole(RoleUser) {
				t.Errorf("subject = %+v", subject)
			}
		})
	}
}

func TestJWTAuthenticator_Name(t *testing.T) {
	if got := NewJWTAuthenticator(newTestManager(t)).Name(); got != "jwt" {
		t.Errorf("Name() = %q, want jwt", got)
	}
}
