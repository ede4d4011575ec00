// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/streamai/internal/audit"
	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/authz"
	"github.com/tomtom215/streamai/internal/catalog"
	"github.com/tomtom215/streamai/internal/config"
	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/metrics"
	"github.com/tomtom215/streamai/internal/securelink"
)

// Transport tells the player how to treat a grant URL.
type Transport string

const (
	// TransportSignedHLS is an edge manifest carrying sig and expires.
	TransportSignedHLS Transport = "signed-hls"

	// TransportPassthrough is a third-party URL returned as stored.
	TransportPassthrough Transport = "passthrough"
)

// Grant is the result of a successful Authorize call.
type Grant struct {
	URL       string
	Transport Transport

	// Set for signed-hls grants only.
	Path      string
	Expires   int64
	ClientIP  string
	Signature string
}

// Signer produces link signatures. *securelink.Signer implements it.
type Signer interface {
	Sign(path string, expires int64, clientIP string) (string, error)
}

// Entitlements decides whether a subject may play content.
// *authz.Enforcer implements it.
type Entitlements interface {
	EnforceWithRoles(subject string, roles []string, object, action string) (bool, error)
}

// Config holds the issuer policy.
type Config struct {
	EdgeBaseURL    string
	ValidityWindow time.Duration
	LookupTimeout  time.Duration
}

// ConfigFrom builds issuer settings from the application configuration.
func ConfigFrom(cfg config.StreamConfig) Config {
	return Config{
		EdgeBaseURL:    cfg.EdgeBaseURL,
		ValidityWindow: cfg.ValidityWindow,
		LookupTimeout:  cfg.LookupTimeout,
	}
}

// Issuer turns an authenticated request for a content ID into a Grant.
// It is safe for concurrent use.
type Issuer struct {
	cfg          Config
	store        catalog.Store
	signer       Signer
	entitlements Entitlements
	audit        *audit.Logger
	now          func() time.Time

	// signing failures usually mean misconfiguration; log them sparingly
	errLog rate.Sometimes
}

// Option customizes an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithEntitlements enables the entitlement check. Without it every
// authenticated subject may play.
func WithEntitlements(e Entitlements) Option {
	return func(i *Issuer) { i.entitlements = e }
}

// WithAudit records every decision to l.
func WithAudit(l *audit.Logger) Option {
	return func(i *Issuer) { i.audit = l }
}

// NewIssuer validates cfg. signer may be nil, in which case every request
// for internal content fails with ErrSigningFailure while external content
// still resolves.
func NewIssuer(cfg Config, store catalog.Store, signer Signer, opts ...Option) (*Issuer, error) {
	if store == nil {
		return nil, errors.New("stream: catalog store is required")
	}
	if cfg.EdgeBaseURL == "" {
		return nil, errors.New("stream: edge base URL is required")
	}
	cfg.EdgeBaseURL = strings.TrimRight(cfg.EdgeBaseURL, "/")
	if cfg.ValidityWindow == 0 {
		cfg.ValidityWindow = config.DefaultValidityWindow
	}
	if cfg.ValidityWindow < time.Second {
		return nil, fmt.Errorf("stream: validity window %s is shorter than one second", cfg.ValidityWindow)
	}
	if cfg.ValidityWindow%time.Second != 0 {
		return nil, fmt.Errorf("stream: validity window %s is not a whole number of seconds", cfg.ValidityWindow)
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 2 * time.Second
	}

	i := &Issuer{
		cfg:    cfg,
		store:  store,
		signer: signer,
		now:    time.Now,
		errLog: rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Authorize resolves contentID for subject. clientIP is the address the
// edge will see; it only matters when the signer binds client IPs.
//
// The checks run in order and stop at the first failure:
//
//  1. subject present and unexpired, else ErrUnauthorized
//  2. subject entitled to stream/play, else ErrForbidden
//  3. catalog lookup, else ErrNotFound or ErrCatalogUnavailable
//  4. external content returns its URL; internal content is signed
func (i *Issuer) Authorize(ctx context.Context, contentID string, subject *auth.AuthSubject, clientIP string) (*Grant, error) {
	grant, err := i.authorize(ctx, contentID, subject, clientIP)
	i.record(ctx, contentID, subject, clientIP, grant, err)
	return grant, err
}

func (i *Issuer) authorize(ctx context.Context, contentID string, subject *auth.AuthSubject, clientIP string) (*Grant, error) {
	now := i.now()

	if subject == nil || subject.ID == "" || subject.IsExpired(now) {
		return nil, ErrUnauthorized
	}

	if i.entitlements != nil {
		allowed, err := i.entitlements.EnforceWithRoles(subject.ID, subject.Roles, authz.ObjectStream, authz.ActionPlay)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("subject", subject.ID).Msg("Entitlement check failed")
			return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}

	entry, err := i.lookup(ctx, contentID)
	if err != nil {
		return nil, err
	}

	switch src := entry.Source.(type) {
	case catalog.ExternalContent:
		return &Grant{URL: src.URL, Transport: TransportPassthrough}, nil
	case catalog.InternalContent:
		return i.sign(ctx, src.Path, now, clientIP)
	default:
		return nil, fmt.Errorf("%w: unclassified content %q", ErrSigningFailure, contentID)
	}
}

func (i *Issuer) lookup(ctx context.Context, contentID string) (*catalog.Entry, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, i.cfg.LookupTimeout)
	defer cancel()

	entry, err := i.store.Get(lookupCtx, contentID)
	switch {
	case err == nil:
		return entry, nil
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrInvalidPath):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, contentID)
	default:
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
}

func (i *Issuer) sign(ctx context.Context, path string, now time.Time, clientIP string) (*Grant, error) {
	if i.signer == nil {
		i.logSigningFailure(ctx, securelink.ErrSecretMissing)
		return nil, fmt.Errorf("%w: %v", ErrSigningFailure, securelink.ErrSecretMissing)
	}

	expires := now.Unix() + int64(i.cfg.ValidityWindow/time.Second)

	start := time.Now()
	sig, err := i.signer.Sign(path, expires, clientIP)
	metrics.SigningDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		i.logSigningFailure(ctx, err)
		return nil, fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}

	return &Grant{
		URL:       securelink.BuildURL(i.cfg.EdgeBaseURL, path, sig, expires),
		Transport: TransportSignedHLS,
		Path:      path,
		Expires:   expires,
		ClientIP:  clientIP,
		Signature: sig,
	}, nil
}

func (i *Issuer) logSigningFailure(ctx context.Context, err error) {
	i.errLog.Do(func() {
		logging.Ctx(ctx).Error().Err(err).Msg("Cannot sign stream URL")
	})
}

func (i *Issuer) record(ctx context.Context, contentID string, subject *auth.AuthSubject, clientIP string, grant *Grant, err error) {
	d := audit.StreamDecision{ContentID: contentID, ClientIP: clientIP}
	if subject != nil {
		d.Actor = audit.Actor{ID: subject.ID, Name: subject.Name, Roles: subject.Roles}
	}

	if err != nil {
		reason := Reason(err)
		metrics.RecordDenied(reason)
		d.Type = audit.EventTypeStreamDenied
		d.Reason = reason
		i.audit.LogStream(ctx, d)
		return
	}

	metrics.RecordGrant(string(grant.Transport))
	d.Transport = string(grant.Transport)
	d.Expires = grant.Expires
	d.Type = audit.EventTypeStreamAuthorized
	if grant.Transport == TransportPassthrough {
		d.Type = audit.EventTypeStreamPassthrough
	}
	i.audit.LogStream(ctx, d)

	logging.Ctx(ctx).Debug().
		Str("content_id", contentID).
		Str("transport", d.Transport).
		Str("url", logging.RedactSignedURL(grant.URL)).
		Msg("Stream authorized")
}
