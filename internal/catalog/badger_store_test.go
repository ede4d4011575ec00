// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"errors"
	"testing"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadgerStore(t.TempDir(), newTestClassifier(t))
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestBadgerStore_ImportGetList(t *testing.T) {
	s := openTestBadger(t)
	ctx := context.Background()

	items := []Item{
		{ID: "99", Title: "Trailer", VideoURL: "https://cdn.example.com/trailer.mp4"},
		{ID: "42", Title: "Night Train", Year: 2021},
	}
	if err := s.Import(ctx, items); err != nil {
		t.Fatalf("Import: %v", err)
	}

	e, err := s.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get(42): %v", err)
	}
	if e.Item.Title != "Night Train" || e.Item.Year != 2021 {
		t.Errorf("Item = %+v", e.Item)
	}
	if got, ok := e.Source.(InternalContent); !ok || got.Path != "/42/index.m3u8" {
		t.Errorf("Source = %#v, want internal /42/index.m3u8", e.Source)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Item.ID != "42" || entries[1].Item.ID != "99" {
		t.Errorf("List() should return entries ordered by id, got %d entries", len(entries))
	}
}

func TestBadgerStore_NotFoundAndDelete(t *testing.T) {
	s := openTestBadger(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store = %v, want ErrNotFound", err)
	}
	if err := s.Put(ctx, Item{ID: "42", Title: "Night Train"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestBadgerStore_ImportIsAllOrNothing(t *testing.T) {
	s := openTestBadger(t)
	ctx := context.Background()

	err := s.Import(ctx, []Item{
		{ID: "1", Title: "Fine"},
		{ID: "2", Title: "Traversal", VideoURL: "/../secret/"},
	})
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Import() error = %v, want ErrInvalidPath", err)
	}
	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("valid item was written despite failed import: %v", err)
	}

	if err := s.Import(ctx, []Item{{Title: "no id"}}); err == nil {
		t.Error("Import() accepted an item without id")
	}
}

func TestBadgerStore_ReplaceOverwrites(t *testing.T) {
	s := openTestBadger(t)
	ctx := context.Background()

	if err := s.Put(ctx, Item{ID: "5", Title: "Old"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, Item{ID: "5", Title: "New", VideoURL: "https://cdn.example.com/5.mp4"}); err != nil {
		t.Fatal(err)
	}
	e, err := s.Get(ctx, "5")
	if err != nil {
		t.Fatal(err)
	}
	if e.Item.Title != "New" {
		t.Errorf("Title = %q, want New", e.Item.Title)
	}
	if _, ok := e.Source.(ExternalContent); !ok {
		t.Errorf("Source = %T, want ExternalContent", e.Source)
	}
}
