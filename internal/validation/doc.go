// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package validation checks request structs with go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and carries the custom tags used by the API:
//
//	contentid  1-128 characters of [A-Za-z0-9._-], not "." or ".."
//
// Failures come back as *RequestValidationError, which converts to the
// VALIDATION_ERROR body used by the HTTP layer:
//
//	type authorizeRequest struct {
//	    ContentID string `json:"contentId" validate:"required,contentid"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
//
// Field names in messages come from the json tag, so clients see the same
// names they send.
package validation
