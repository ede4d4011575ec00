// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/streamai/internal/audit"
	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/validation"
)

// maxAuditLimit caps a single audit page.
const maxAuditLimit = 1000

// auditQuery is the validated query string of GET /api/admin/audit.
type auditQuery struct {
	Limit     int    `json:"limit" validate:"min=1,max=1000"`
	Actor     string `json:"actor" validate:"omitempty,max=128"`
	Outcome   string `json:"outcome" validate:"omitempty,oneof=success failure"`
	Type      string `json:"type" validate:"omitempty,oneof=stream.authorized stream.passthrough stream.denied"`
	Content   string `json:"content" validate:"omitempty,contentid"`
	SourceIP  string `json:"source_ip" validate:"omitempty,ip"`
	StartTime string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// ListAuditEvents handles GET /api/admin/audit. Events come back newest
// first.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.audit == nil {
		rw.ServiceUnavailable("Audit logging is disabled")
		return
	}

	q := r.URL.Query()
	req := auditQuery{
		Limit:     audit.DefaultQueryFilter().Limit,
		Actor:     q.Get("actor"),
		Outcome:   q.Get("outcome"),
		Type:      q.Get("type"),
		Content:   q.Get("content"),
		SourceIP:  q.Get("source_ip"),
		StartTime: q.Get("start_time"),
		EndTime:   q.Get("end_time"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			rw.ValidationError("limit must be an integer", map[string]interface{}{"field": "limit"})
			return
		}
		req.Limit = limit
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	filter := req.filter()
	ctx := r.Context()

	events, err := h.audit.Query(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to query audit events")
		rw.InternalError("Failed to query audit events")
		return
	}
	total, err := h.audit.Count(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to count audit events")
		rw.InternalError("Failed to count audit events")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	rw.SuccessWithPagination(events, &PaginationMeta{
		Total:   total,
		Count:   len(events),
		Limit:   filter.Limit,
		HasMore: total > int64(len(events)),
	})
}

// filter assumes the query already validated.
func (q auditQuery) filter() audit.QueryFilter {
	f := audit.DefaultQueryFilter()
	f.Limit = min(q.Limit, maxAuditLimit)
	f.ActorID = q.Actor
	f.TargetID = q.Content
	f.SourceIP = q.SourceIP
	if q.Outcome != "" {
		f.Outcomes = []audit.Outcome{audit.Outcome(q.Outcome)}
	}
	if q.Type != "" {
		f.Types = []audit.EventType{audit.EventType(q.Type)}
	}
	if t, err := time.Parse(time.RFC3339, q.StartTime); err == nil {
		f.StartTime = &t
	}
	if t, err := time.Parse(time.RFC3339, q.EndTime); err == nil {
		f.EndTime = &t
	}
	return f
}
