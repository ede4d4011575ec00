// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package audit records authorization decisions for later review.
//
// # Event Types
//
//   - stream.authorized: a signed URL was issued for internal content
//   - stream.passthrough: an external URL was handed out unchanged
//   - stream.denied: the request was refused (metadata.reason says why)
//
// # Delivery
//
// Logger.Log never blocks the request path. Events go through a bounded
// channel to a single writer goroutine; when the channel is full the event
// is dropped and streamai_audit_events_dropped_total is incremented.
//
// The only store is MemoryStore, a fixed-size ring that keeps the most
// recent events. It backs GET /api/admin/audit:
//
//	events, err := logger.Query(ctx, audit.QueryFilter{
//	    ActorID:  "u-1",
//	    Outcomes: []audit.Outcome{audit.OutcomeFailure},
//	    Limit:    50,
//	})
//
// Signed URLs and signatures are never written to the trail; a grant is
// identified by content ID, transport and expiry.
package audit
