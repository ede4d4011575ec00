// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/stream/authorize/{contentId}", "200"))
	RecordAPIRequest("GET", "/api/stream/authorize/{contentId}", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/stream/authorize/{contentId}", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestRecordGrantAndDenied(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		read   func() float64
	}{
		{
			name:   "signed grant",
			record: func() { RecordGrant("signed-hls") },
			read:   func() float64 { return testutil.ToFloat64(GrantsIssued.WithLabelValues("signed-hls")) },
		},
		{
			name:   "passthrough grant",
			record: func() { RecordGrant("passthrough") },
			read:   func() float64 { return testutil.ToFloat64(GrantsIssued.WithLabelValues("passthrough")) },
		},
		{
			name:   "not found",
			record: func() { RecordDenied("not_found") },
			read:   func() float64 { return testutil.ToFloat64(AuthorizeDenied.WithLabelValues("not_found")) },
		},
		{
			name:   "cache hit",
			record: func() { RecordCacheLookup(true) },
			read:   func() float64 { return testutil.ToFloat64(CatalogCacheLookups.WithLabelValues("hit")) },
		},
		{
			name:   "cache miss",
			record: func() { RecordCacheLookup(false) },
			read:   func() float64 { return testutil.ToFloat64(CatalogCacheLookups.WithLabelValues("miss")) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.read()
			tt.record()
			if delta := tt.read() - before; delta != 1 {
				t.Errorf("delta = %v, want 1", delta)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}
