// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

/*
Package api exposes the playback authorization service over HTTP using the
chi router.

Routes:

	GET /api/stream/authorize/{contentId}  grant for a content item
	GET /api/admin/audit                   recent authorization events (admin)
	GET /api/health/live                   liveness probe
	GET /api/health/ready                  readiness probe
	GET /metrics                           Prometheus exposition

The authorize route answers with a bare grant body:

	{"url": "https://edge.example/42/index.m3u8?sig=...&expires=...",
	 "transport": "signed-hls", "expires": 1767225600}

Every other response, and every error, uses the APIResponse envelope:

	{"success": false,
	 "error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."},
	 "meta": {"timestamp": "...", "request_id": "..."}}

Status codes for authorize: 401 missing or invalid identity, 403 not
entitled, 404 unknown content, 500 signing failure, 503 catalog
unavailable, 400 malformed content ID, 429 rate limited.
*/
package api
