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
)

var errBackendDown = errors.New("backend down")

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	backend := newCountingStore(internalEntry("42"))
	backend.setErr(errBackendDown)
	b := NewBreakerStore(backend, BreakerSettings{Name: "catalog-test-open", MaxFailures: 3, OpenTimeout: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := b.Get(ctx, "42"); !errors.Is(err, errBackendDown) {
			t.Fatalf("call %d: error = %v, want backend error", i, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	_, err := b.Get(ctx, "42")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get() while open = %v, want ErrUnavailable", err)
	}
	if got := backend.gets.Load(); got != 3 {
		t.Errorf("backend calls = %d, want 3 (open circuit must short-circuit)", got)
	}
}

func TestBreakerStore_NotFoundDoesNotTrip(t *testing.T) {
	backend := newCountingStore()
	b := NewBreakerStore(backend, BreakerSettings{Name: "catalog-test-notfound", MaxFailures: 2, OpenTimeout: time.Hour})

	for i := 0; i < 10; i++ {
		if _, err := b.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get() = %v, want ErrNotFound", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerStore_CanceledDoesNotTrip(t *testing.T) {
	backend := newCountingStore()
	backend.setErr(context.Canceled)
	b := NewBreakerStore(backend, BreakerSettings{Name: "catalog-test-cancel", MaxFailures: 1, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		_, _ = b.Get(context.Background(), "42")
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerStore_Recovers(t *testing.T) {
	backend := newCountingStore(internalEntry("42"))
	backend.setErr(errBackendDown)
	b := NewBreakerStore(backend, BreakerSettings{Name: "catalog-test-recover", MaxFailures: 1, OpenTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	_, _ = b.Get(ctx, "42")
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	backend.setErr(nil)
	time.Sleep(50 * time.Millisecond)

	e, err := b.Get(ctx, "42")
	if err != nil {
		t.Fatalf("probe Get: %v", err)
	}
	if e.Item.ID != "42" {
		t.Errorf("ID = %q", e.Item.ID)
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed after successful probe", b.State())
	}
}

func TestBreakerStore_List(t *testing.T) {
	backend := newCountingStore(internalEntry("1"), internalEntry("2"))
	b := NewBreakerStore(backend, BreakerSettings{Name: "catalog-test-list"})

	entries, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("List() returned %d entries, want 2", len(entries))
	}
}
