// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

/*
Package services adapts StreamAI components to suture.Service.

HTTPServerService turns the blocking ListenAndServe of *http.Server into a
context-aware Serve with a bounded graceful shutdown.

CatalogReloaderService polls the JSON catalog document and swaps in a new
snapshot when the file changes. A failed reload keeps the previous snapshot
and is retried on the next tick; it never stops the service.
*/
package services
