// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/streamai/internal/metrics"
)

func TestCachedStore_HitsAvoidBackend(t *testing.T) {
	backend := newCountingStore(internalEntry("42"))
	s := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	hitsBefore := testutil.ToFloat64(metrics.CatalogCacheLookups.WithLabelValues("hit"))

	for i := 0; i < 3; i++ {
		e, err := s.Get(ctx, "42")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if e.Item.ID != "42" {
			t.Fatalf("ID = %q", e.Item.ID)
		}
	}
	if got := backend.gets.Load(); got != 1 {
		t.Errorf("backend Get calls = %d, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CatalogCacheLookups.WithLabelValues("hit")) - hitsBefore; got != 2 {
		t.Errorf("cache hits recorded = %v, want 2", got)
	}
}

func TestCachedStore_MissesAreNotCached(t *testing.T) {
	backend := newCountingStore()
	s := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := s.Get(ctx, "new"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get() = %v, want ErrNotFound", err)
		}
	}
	if got := backend.gets.Load(); got != 2 {
		t.Errorf("backend Get calls = %d, want 2", got)
	}

	backend.mu.Lock()
	backend.entries["new"] = internalEntry("new")
	backend.mu.Unlock()

	if _, err := s.Get(ctx, "new"); err != nil {
		t.Errorf("newly added item not visible: %v", err)
	}
}

func TestCachedStore_Invalidate(t *testing.T) {
	backend := newCountingStore(internalEntry("1"))
	s := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	_, _ = s.Get(ctx, "1")
	s.Invalidate()
	if s.Cache().Len() != 0 {
		t.Fatalf("Len() after Invalidate = %d", s.Cache().Len())
	}
	_, _ = s.Get(ctx, "1")
	if got := backend.gets.Load(); got != 2 {
		t.Errorf("backend Get calls = %d, want 2", got)
	}

	if _, err := s.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if backend.lists.Load() != 1 {
		t.Error("List should read through")
	}
}
