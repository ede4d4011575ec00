// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

/*
Command server runs the StreamAI playback authorization service.

A client that wants to play a title calls

	GET /api/stream/authorize/{contentId}
	Authorization: Bearer <jwt>

and receives either a short-lived signed URL on the edge host (internal
content) or the title's external URL unchanged (external content). The edge
validates signatures with nginx secure_link, so this process never serves
video bytes.

# Supervision

	RootSupervisor ("streamai")
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogReloaderService (CATALOG_BACKEND=json)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Startup order:

 1. Configuration: koanf defaults, optional YAML file, environment
 2. Logging: zerolog, json or console
 3. Catalog: JSON document or Badger, behind a circuit breaker and LRU cache
 4. Signer: md5 (nginx secure_link_md5) or hmac-sha256
 5. Entitlements (Casbin) and audit logger
 6. Issuer, JWT authenticator, chi router
 7. Supervisor tree

# Configuration

	STREAM_SIGNING_SECRET=<secret shared with the edge>
	STREAM_EDGE_BASE_URL=https://edge.example.com
	STREAM_VALIDITY_WINDOW=6h
	STREAM_BIND_CLIENT_IP=false
	CATALOG_BACKEND=json
	CATALOG_DATA_FILE=data.json
	JWT_SECRET=<32+ chars>
	TRUSTED_PROXIES=10.0.0.0/8

Without STREAM_SIGNING_SECRET the service starts outside production, answers
external content, and refuses internal content with SIGNING_FAILURE.

# Signals

SIGINT and SIGTERM cancel the root context; in-flight requests get
SHUTDOWN_TIMEOUT to finish.
*/
package main
