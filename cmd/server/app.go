// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/streamai/internal/api"
	"github.com/tomtom215/streamai/internal/audit"
	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/authz"
	"github.com/tomtom215/streamai/internal/catalog"
	"github.com/tomtom215/streamai/internal/config"
	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/middleware"
	"github.com/tomtom215/streamai/internal/securelink"
	"github.com/tomtom215/streamai/internal/stream"
)

// app holds the wired components that main hands to the supervisor tree.
type app struct {
	handler http.Handler

	// jsonStore is set for the json backend and polled for changes.
	jsonStore *catalog.JSONStore
	cached    *catalog.CachedStore
	breaker   *catalog.BreakerStore

	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildApp wires every component from cfg. On error everything acquired so
// far is released.
func buildApp(cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	store, err := a.buildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	signer, err := newSigner(cfg.Stream)
	if err != nil {
		return nil, err
	}

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfigFrom(cfg.Security.Casbin))
	if err != nil {
		return nil, fmt.Errorf("init authorization: %w", err)
	}
	a.closers = append(a.closers, func() error { enforcer.Close(); return nil })

	auditLogger := audit.NewLogger(audit.NewMemoryStore(cfg.Audit.MaxEvents), audit.ConfigFrom(cfg.Audit))
	a.closers = append(a.closers, auditLogger.Close)

	issuer, err := stream.NewIssuer(stream.ConfigFrom(cfg.Stream), store, signer,
		stream.WithEntitlements(enforcer),
		stream.WithAudit(auditLogger),
	)
	if err != nil {
		return nil, fmt.Errorf("init issuer: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("init jwt: %w", err)
	}

	clientIP, err := middleware.NewClientIPResolver(cfg.Security.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}

	handler := api.NewHandler(issuer,
		api.WithAuditReader(auditLogger),
		api.WithReadinessCheck("catalog", a.catalogReady),
		api.WithReadinessCheck("catalog_breaker", a.breakerReady),
	)
	router := api.NewRouter(handler,
		auth.NewJWTAuthenticator(jwtManager),
		enforcer,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)),
		clientIP,
	)
	a.handler = router.SetupChi()
	return a, nil
}

// buildCatalog opens the configured backend and decorates it:
// backend -> breaker -> cache. The breaker sits below the cache so hits
// keep serving while the backend is failing.
func (a *app) buildCatalog(cfg *config.Config) (catalog.Store, error) {
	classifier, err := catalog.NewClassifier(cfg.Stream.InternalHostPattern, cfg.Stream.ManifestExtension)
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}

	var backend catalog.Store
	switch cfg.Catalog.Backend {
	case "badger":
		bs, err := catalog.OpenBadgerStore(cfg.Catalog.BadgerDir, classifier)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bs.Close)
		backend = bs
		logging.Info().Str("dir", cfg.Catalog.BadgerDir).Msg("Catalog backend: badger")
	default:
		js := catalog.NewJSONStore(cfg.Catalog.DataFile, classifier)
		// A missing or broken file is not fatal; readiness stays red and
		// the reloader picks the file up once it is fixed.
		if err := js.Load(); err != nil {
			logging.Warn().Err(err).Msg("Catalog not loaded at startup")
		}
		a.jsonStore = js
		backend = js
		logging.Info().Str("path", cfg.Catalog.DataFile).Msg("Catalog backend: json")
	}

	a.breaker = catalog.NewBreakerStore(backend, catalog.BreakerSettings{
		Name:        "catalog",
		MaxFailures: cfg.Catalog.BreakerMaxFailures,
		OpenTimeout: cfg.Catalog.BreakerOpenTimeout,
	})
	a.cached = catalog.NewCachedStore(a.breaker, cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL)
	return a.cached, nil
}

func (a *app) catalogReady(context.Context) error {
	if a.jsonStore != nil && !a.jsonStore.Loaded() {
		return catalog.ErrNotLoaded
	}
	return nil
}

func (a *app) breakerReady(context.Context) error {
	if a.breaker != nil && a.breaker.State() == "open" {
		return catalog.ErrUnavailable
	}
	return nil
}

// newSigner returns nil without error when no secret is configured, so the
// service still boots and serves external content. Internal content then
// fails closed with a signing failure.
func newSigner(cfg config.StreamConfig) (stream.Signer, error) {
	if cfg.SigningSecret == "" {
		logging.Warn().Msg("STREAM_SIGNING_SECRET is not set; internal content cannot be authorized")
		return nil, nil
	}
	s, err := securelink.NewSigner(securelink.Config{
		Secret:       cfg.SigningSecret,
		Algorithm:    securelink.Algorithm(cfg.SignatureAlgorithm),
		BindClientIP: cfg.BindClientIP,
	})
	if err != nil {
		return nil, fmt.Errorf("init signer: %w", err)
	}
	logging.Info().
		Str("algorithm", string(s.Algorithm())).
		Bool("bind_client_ip", s.BindsClientIP()).
		Str("secret", logging.RedactSecret(cfg.SigningSecret)).
		Msg("Signer configured")
	return s, nil
}
