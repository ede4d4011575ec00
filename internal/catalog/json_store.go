// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/metrics"
)

// document is the on-disk datastore shared with the web application. Only
// movies are read; users and posts belong to other services.
type document struct {
	Movies []Item `json:"movies"`
}

// JSONStore serves the catalog from a JSON document. The document is read
// into an immutable snapshot; Reload swaps in a new snapshot when the file
// changes, so lookups never block on I/O.
type JSONStore struct {
	path       string
	classifier *Classifier

	current atomic.Pointer[snapshot]

	reloadMu sync.Mutex
	modTime  time.Time
	size     int64
}

// NewJSONStore creates a store for the document at path. Call Load before use.
func NewJSONStore(path string, classifier *Classifier) *JSONStore {
	return &JSONStore{path: path, classifier: classifier}
}

// Path returns the document location.
func (s *JSONStore) Path() string { return s.path }

// Load reads the document unconditionally.
func (s *JSONStore) Load() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.loadLocked()
}

// Reload re-reads the document if its size or mtime changed since the last
// successful load. It reports whether a new snapshot was installed. On
// error the previous snapshot stays in place.
func (s *JSONStore) Reload() (bool, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		return false, fmt.Errorf("stat catalog %s: %w", s.path, err)
	}
	if s.current.Load() != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		metrics.CatalogReloads.WithLabelValues("unchanged").Inc()
		return false, nil
	}
	if err := s.loadLocked(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONStore) loadLocked() error {
	info, err := os.Stat(s.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		return fmt.Errorf("stat catalog %s: %w", s.path, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		return fmt.Errorf("read catalog %s: %w", s.path, err)
	}

	items, err := DecodeItems(data)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		return fmt.Errorf("parse catalog %s: %w", s.path, err)
	}

	snap, problems := buildSnapshot(items, s.classifier)
	for _, p := range problems {
		logging.Warn().Err(p).Str("path", s.path).Msg("Skipping catalog item")
	}

	s.current.Store(snap)
	s.modTime = info.ModTime()
	s.size = info.Size()

	metrics.CatalogItems.Set(float64(len(snap.ordered)))
	metrics.CatalogReloads.WithLabelValues("success").Inc()
	logging.Info().
		Str("path", s.path).
		Int("items", len(snap.ordered)).
		Int("skipped", len(problems)).
		Msg("Catalog loaded")
	return nil
}

// DecodeItems parses a catalog document and returns its movies.
func DecodeItems(data []byte) ([]Item, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Movies, nil
}

// Loaded reports whether a snapshot is available.
func (s *JSONStore) Loaded() bool {
	return s.current.Load() != nil
}

// Get implements Store.
func (s *JSONStore) Get(ctx context.Context, id string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.get(id)
}

// List implements Store. Entries keep document order.
func (s *JSONStore) List(ctx context.Context) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.list(), nil
}

// IsNotExist reports whether err came from a missing catalog file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
