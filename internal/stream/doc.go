// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package stream issues playback grants.
//
// Authorize runs a fixed sequence: identity, entitlement, catalog lookup,
// then a branch on the entry's source. Internal content gets a signed edge
// URL bounded by the validity window; external content is handed back
// unchanged and never reaches the signer.
//
// Every failure maps to one of the sentinel errors in errors.go so the
// HTTP layer can choose a status code without inspecting causes.
package stream
