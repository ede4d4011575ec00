// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/streamai/internal/config"
	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	Enabled    bool
	BufferSize int
	MaxEvents  int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		BufferSize: 1000,
		MaxEvents:  10000,
	}
}

// ConfigFrom maps the loaded configuration.
func ConfigFrom(cfg config.AuditConfig) *Config {
	c := DefaultConfig()
	c.Enabled = cfg.Enabled
	if cfg.BufferSize > 0 {
		c.BufferSize = cfg.BufferSize
	}
	if cfg.MaxEvents > 0 {
		c.MaxEvents = cfg.MaxEvents
	}
	return c
}

// Logger writes events to a Store asynchronously. A nil *Logger discards
// everything, so callers need not check whether auditing is configured.
type Logger struct {
	config    *Config
	store     Store
	enabled   atomic.Bool
	eventChan chan *Event
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewLogger creates a logger and starts its writer goroutine.
func NewLogger(store Store, cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}

	l := &Logger{
		config:    cfg,
		store:     store,
		eventChan: make(chan *Event, cfg.BufferSize),
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}
	l.enabled.Store(cfg.Enabled)

	l.wg.Add(1)
	go l.asyncWriter()
	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).Str("event_id", event.ID).Msg("Failed to save audit event")
	}
}

// Log queues event. It never blocks; a full buffer drops the event.
func (l *Logger) Log(event *Event) {
	if l == nil || !l.enabled.Load() {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now().UTC()
	}

	select {
	case l.eventChan <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("event_id", event.ID).Str("type", string(event.Type)).Msg("Audit event buffer full, dropping event")
	}
}

// StreamDecision describes the outcome of one authorization request.
type StreamDecision struct {
	Type      EventType
	Actor     Actor
	ContentID string
	ClientIP  string
	UserAgent string
	Transport string
	Expires   int64
	Reason    string
}

// maxUserAgentLength caps the stored User-Agent header.
const maxUserAgentLength = 512

type userAgentKey struct{}

// ContextWithUserAgent returns a copy of ctx carrying the client's
// User-Agent for LogStream.
func ContextWithUserAgent(ctx context.Context, ua string) context.Context {
	if len(ua) > maxUserAgentLength {
		ua = ua[:maxUserAgentLength]
	}
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// UserAgentFromContext returns "" when no User-Agent is set.
func UserAgentFromContext(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}

// LogStream records an authorization outcome, taking request and
// correlation IDs and, unless d carries one, the User-Agent from ctx.
func (l *Logger) LogStream(ctx context.Context, d StreamDecision) {
	if l == nil {
		return
	}
	if d.UserAgent == "" {
		d.UserAgent = UserAgentFromContext(ctx)
	}

	event := &Event{
		Type:          d.Type,
		Severity:      SeverityInfo,
		Outcome:       OutcomeSuccess,
		Actor:         d.Actor,
		Target:        &Target{ID: d.ContentID, Type: "content"},
		Source:        Source{IPAddress: d.ClientIP, UserAgent: d.UserAgent},
		Action:        "authorize",
		CorrelationID: logging.CorrelationIDFromContext(ctx),
		RequestID:     logging.RequestIDFromContext(ctx),
	}
	if event.Actor.Type == "" {
		event.Actor.Type = "user"
		if event.Actor.ID == "" {
			event.Actor.Type = "anonymous"
		}
	}

	meta := map[string]interface{}{}
	switch d.Type {
	case EventTypeStreamAuthorized:
		event.Description = "Signed playback URL issued"
		meta["transport"] = d.Transport
		meta["expires"] = d.Expires
	case EventTypeStreamPassthrough:
		event.Description = "External playback URL returned"
		meta["transport"] = d.Transport
	default:
		event.Severity = SeverityWarning
		event.Outcome = OutcomeFailure
		event.Description = "Playback authorization denied: " + d.Reason
		meta["reason"] = d.Reason
	}
	event.Metadata = mustJSON(meta)

	l.Log(event)
}

// Query retrieves events matching the filter.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	if l == nil || l.store == nil {
		return nil, nil
	}
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	if l == nil || l.store == nil {
		return 0, nil
	}
	return l.store.Count(ctx, filter)
}

// SetEnabled enables or disables audit logging.
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled.Store(enabled)
}

// Enabled returns whether audit logging is enabled.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled.Load()
}

// Close stops the writer after draining queued events. It is idempotent.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
	return nil
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
