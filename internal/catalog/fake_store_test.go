// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// countingStore is a Store double that counts calls and can be told to fail.
type countingStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
	err     error

	gets  atomic.Int32
	lists atomic.Int32
}

func newCountingStore(entries ...*Entry) *countingStore {
	s := &countingStore{entries: make(map[string]*Entry)}
	for _, e := range entries {
		s.entries[e.Item.ID] = e
	}
	return s
}

func (s *countingStore) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *countingStore) Get(_ context.Context, id string) (*Entry, error) {
	s.gets.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if e, ok := s.entries[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *countingStore) List(_ context.Context) ([]*Entry, error) {
	s.lists.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

func internalEntry(id string) *Entry {
	return &Entry{
		Item:   Item{ID: id, Title: "Title " + id},
		Source: InternalContent{Path: "/" + id + "/index.m3u8"},
	}
}
