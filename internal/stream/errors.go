// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the caller has no valid identity.
	ErrUnauthorized = errors.New("stream: unauthorized")

	// ErrForbidden means the caller is known but not entitled to play.
	// It wraps ErrUnauthorized; check it first when mapping to a status.
	ErrForbidden = fmt.Errorf("%w: not entitled to stream", ErrUnauthorized)

	// ErrNotFound means the content ID is not in the catalog.
	ErrNotFound = errors.New("stream: content not found")

	// ErrSigningFailure means a grant for internal content could not be
	// signed. No URL is ever returned alongside it.
	ErrSigningFailure = errors.New("stream: signing failure")

	// ErrCatalogUnavailable means the catalog could not answer in time.
	ErrCatalogUnavailable = errors.New("stream: catalog unavailable")
)

// Reason returns the metric and audit label for err.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCatalogUnavailable):
		return "catalog_unavailable"
	default:
		return "signing_failure"
	}
}
