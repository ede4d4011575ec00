// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/streamai/internal/audit"
	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/middleware"
	"github.com/tomtom215/streamai/internal/stream"
	"github.com/tomtom215/streamai/internal/validation"
)

// authorizeRequest is the validated form of the authorize path parameter.
type authorizeRequest struct {
	ContentID string `json:"contentId" validate:"required,contentid"`
}

// GrantResponse is the authorize success body.
type GrantResponse struct {
	URL       string `json:"url"`
	Transport string `json:"transport"`
	Expires   int64  `json:"expires,omitempty"`
}

// AuthorizeStream handles GET /api/stream/authorize/{contentId}.
func (h *Handler) AuthorizeStream(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := audit.ContextWithUserAgent(r.Context(), r.UserAgent())

	req := authorizeRequest{ContentID: chi.URLParam(r, "contentId")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	grant, err := h.authorizer.Authorize(ctx, req.ContentID, auth.GetAuthSubject(ctx), middleware.ClientIPFromContext(ctx))
	if err != nil {
		// a rejected token explains a 401 better than "missing identity"
		authErr := auth.AuthError(ctx)
		if authErr != nil && errors.Is(err, stream.ErrUnauthorized) && !errors.Is(err, stream.ErrForbidden) {
			authErrorWriter(w, r, authErr)
			return
		}
		writeStreamError(rw, r, err)
		return
	}

	rw.JSON(http.StatusOK, GrantResponse{
		URL:       grant.URL,
		Transport: string(grant.Transport),
		Expires:   grant.Expires,
	})
}
