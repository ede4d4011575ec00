// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package services

import (
	"context"
	"time"

	"github.com/tomtom215/streamai/internal/logging"
)

// DefaultReloadInterval is used when the configured interval is not positive.
const DefaultReloadInterval = 30 * time.Second

// CatalogReloader is satisfied by *catalog.JSONStore.
type CatalogReloader interface {
	Reload() (bool, error)
}

// CatalogReloaderService polls a catalog for changes.
type CatalogReloaderService struct {
	catalog  CatalogReloader
	interval time.Duration
	onChange func()
	name     string
}

// ReloaderOption configures a CatalogReloaderService.
type ReloaderOption func(*CatalogReloaderService)

// WithOnChange runs fn after every reload that installed a new snapshot.
// Cached lookups are invalidated this way.
func WithOnChange(fn func()) ReloaderOption {
	return func(s *CatalogReloaderService) {
		s.onChange = fn
	}
}

// NewCatalogReloaderService polls c every interval.
func NewCatalogReloaderService(c CatalogReloader, interval time.Duration, opts ...ReloaderOption) *CatalogReloaderService {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	s := &CatalogReloaderService{
		catalog:  c,
		interval: interval,
		name:     "catalog-reloader",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve implements suture.Service. Reload errors are logged and retried on
// the next tick; only cancellation ends the loop.
func (s *CatalogReloaderService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.reloadOnce()
		}
	}
}

func (s *CatalogReloaderService) reloadOnce() {
	changed, err := s.catalog.Reload()
	if err != nil {
		logging.Warn().Err(err).Msg("Catalog reload failed, keeping previous snapshot")
		return
	}
	if changed && s.onChange != nil {
		s.onChange()
	}
}

// String names the service in supervisor events.
func (s *CatalogReloaderService) String() string {
	return s.name
}
