// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testDocument = `{
  "users": [{"id": "u1", "email": "a@example.com"}],
  "movies": [
    {"id": "42", "title": "Night Train", "videoUrl": "", "views": 10, "year": 2021, "duration": "1h 52m", "rating": "PG-13"},
    {"id": "99", "title": "Trailer", "videoUrl": "https://cdn.example.com/trailer.mp4", "views": 0},
    {"id": "7", "title": "Hosted", "videoUrl": "https://media.streamai.internal/shows/7/", "views": 3},
    {"id": "bad", "title": "Broken", "videoUrl": "/x/../../etc/passwd", "views": 0},
    {"id": "42", "title": "Shadowed duplicate", "videoUrl": "/other/", "views": 0},
    {"title": "No id", "videoUrl": "", "views": 0}
  ]
}`

func writeDocument(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "data.json")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return p
}

func loadedJSONStore(t *testing.T, body string) *JSONStore {
	t.Helper()
	s := NewJSONStore(writeDocument(t, t.TempDir(), body), newTestClassifier(t))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestJSONStore_Get(t *testing.T) {
	s := loadedJSONStore(t, testDocument)
	ctx := context.Background()

	e, err := s.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get(42): %v", err)
	}
	if e.Item.Title != "Night Train" {
		t.Errorf("duplicate id should keep first occurrence, got title %q", e.Item.Title)
	}
	if e.Item.Year != 2021 || e.Item.Rating != "PG-13" || e.Item.Duration != "1h 52m" {
		t.Errorf("item fields not decoded: %+v", e.Item)
	}
	if got, ok := e.Source.(InternalContent); !ok || got.Path != "/42/index.m3u8" {
		t.Errorf("Source = %#v, want internal /42/index.m3u8", e.Source)
	}

	e, err = s.Get(ctx, "99")
	if err != nil {
		t.Fatalf("Get(99): %v", err)
	}
	if got, ok := e.Source.(ExternalContent); !ok || got.URL != "https://cdn.example.com/trailer.mp4" {
		t.Errorf("Source = %#v, want external trailer", e.Source)
	}

	e, err = s.Get(ctx, "7")
	if err != nil {
		t.Fatalf("Get(7): %v", err)
	}
	if got, ok := e.Source.(InternalContent); !ok || got.Path != "/shows/7/index.m3u8" {
		t.Errorf("Source = %#v, want internal /shows/7/index.m3u8", e.Source)
	}

	for _, id := range []string{"bad", "missing", ""} {
		if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestJSONStore_ListKeepsDocumentOrder(t *testing.T) {
	s := loadedJSONStore(t, testDocument)

	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"42", "99", "7"}
	if len(entries) != len(want) {
		t.Fatalf("List() returned %d entries, want %d", len(entries), len(want))
	}
	for i, id := range want {
		if entries[i].Item.ID != id {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].Item.ID, id)
		}
	}

	// The returned slice is a copy.
	entries[0] = nil
	again, _ := s.List(context.Background())
	if again[0] == nil {
		t.Error("List() exposed the internal slice")
	}
}

func TestJSONStore_NotLoaded(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "data.json"), newTestClassifier(t))
	if s.Loaded() {
		t.Error("Loaded() = true before Load")
	}
	if _, err := s.Get(context.Background(), "42"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Get() error = %v, want ErrNotLoaded", err)
	}
	if err := s.Load(); !IsNotExist(err) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestJSONStore_CanceledContext(t *testing.T) {
	s := loadedJSONStore(t, testDocument)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Get(ctx, "42"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
}

func TestJSONStore_Reload(t *testing.T) {
	dir := t.TempDir()
	p := writeDocument(t, dir, `{"movies":[{"id":"1","title":"One","videoUrl":"","views":0}]}`)
	s := NewJSONStore(p, newTestClassifier(t))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	changed, err := s.Reload()
	if err != nil || changed {
		t.Fatalf("Reload() on unchanged file = %v, %v; want false, nil", changed, err)
	}

	writeDocument(t, dir, `{"movies":[{"id":"1","title":"One","videoUrl":"","views":0},{"id":"2","title":"Two","videoUrl":"","views":0}]}`)
	changed, err = s.Reload()
	if err != nil || !changed {
		t.Fatalf("Reload() after edit = %v, %v; want true, nil", changed, err)
	}
	if _, err := s.Get(context.Background(), "2"); err != nil {
		t.Errorf("Get(2) after reload: %v", err)
	}
}

func TestJSONStore_ReloadKeepsSnapshotOnBadDocument(t *testing.T) {
	dir := t.TempDir()
	p := writeDocument(t, dir, `{"movies":[{"id":"1","title":"One","videoUrl":"","views":0}]}`)
	s := NewJSONStore(p, newTestClassifier(t))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	writeDocument(t, dir, `{"movies": [ this is not json`)
	if changed, err := s.Reload(); err == nil || changed {
		t.Fatalf("Reload() = %v, %v; want parse error", changed, err)
	}
	if _, err := s.Get(context.Background(), "1"); err != nil {
		t.Errorf("previous snapshot should still serve: %v", err)
	}

	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Reload(); !IsNotExist(err) {
		t.Errorf("Reload() of removed file = %v, want not-exist", err)
	}
	if _, err := s.Get(context.Background(), "1"); err != nil {
		t.Errorf("previous snapshot should survive a missing file: %v", err)
	}
}
