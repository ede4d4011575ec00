// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/streamai/internal/logging"
)

func serveRequestID(t *testing.T, header string) (respID, ctxID, logReqID, correlationID string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
		logReqID = logging.RequestIDFromContext(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Header().Get(RequestIDHeader), ctxID, logReqID, correlationID
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	respID, ctxID, logReqID, correlationID := serveRequestID(t, "")

	if _, err := uuid.Parse(respID); err != nil {
		t.Errorf("response X-Request-ID %q is not a UUID: %v", respID, err)
	}
	if ctxID != respID || logReqID != respID {
		t.Errorf("context IDs %q/%q do not match header %q", ctxID, logReqID, respID)
	}
	if correlationID == "" {
		t.Error("expected a correlation ID in context")
	}
}

func TestRequestID_PreservesUpstreamID(t *testing.T) {
	const upstream = "edge-proxy-12345"
	respID, ctxID, _, _ := serveRequestID(t, upstream)

	if respID != upstream || ctxID != upstream {
		t.Errorf("got header %q ctx %q, want %q", respID, ctxID, upstream)
	}
}

func TestRequestID_ReplacesOversizedID(t *testing.T) {
	respID, _, _, _ := serveRequestID(t, strings.Repeat("x", maxRequestIDLen+1))

	if _, err := uuid.Parse(respID); err != nil {
		t.Errorf("oversized upstream ID was kept: %q", respID)
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, _, _, _ := serveRequestID(t, "")
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "set", ctx: context.WithValue(context.Background(), RequestIDKey, "abc"), want: "abc"},
		{name: "missing", ctx: context.Background(), want: ""},
		{name: "wrong type", ctx: context.WithValue(context.Background(), RequestIDKey, 42), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetRequestID(tt.ctx); got != tt.want {
				t.Errorf("GetRequestID() = %q, want %q", got, tt.want)
			}
		})
	}
}
