// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"time"

	"github.com/tomtom215/streamai/internal/cache"
	"github.com/tomtom215/streamai/internal/metrics"
)

// CachedStore keeps recently resolved entries in memory in front of a
// slower store. Only hits are cached; an unknown ID always reaches next, so
// newly added content is visible immediately.
type CachedStore struct {
	next Store
	lru  *cache.LRU[*Entry]
}

// NewCachedStore wraps next with an LRU of the given size and TTL.
func NewCachedStore(next Store, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, lru: cache.NewLRU[*Entry](size, ttl)}
}

// Get implements Store.
func (c *CachedStore) Get(ctx context.Context, id string) (*Entry, error) {
	if e, ok := c.lru.Get(id); ok {
		metrics.RecordCacheLookup(true)
		return e, nil
	}
	metrics.RecordCacheLookup(false)

	e, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.lru.Add(id, e)
	return e, nil
}

// List implements Store. Listing always reads through.
func (c *CachedStore) List(ctx context.Context) ([]*Entry, error) {
	return c.next.List(ctx)
}

// Invalidate drops every cached entry, e.g. after an import.
func (c *CachedStore) Invalidate() {
	c.lru.Clear()
}

// Cache exposes the underlying LRU for tests and stats.
func (c *CachedStore) Cache() *cache.LRU[*Entry] { return c.lru }
