// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package authz

import (
	"time"

	"github.com/tomtom215/streamai/internal/cache"
)

// decisionCache memoizes (subject, object, action) decisions. Any policy
// change clears it; auto-reloaded policy files are picked up within the TTL.
type decisionCache struct {
	lru *cache.LRU[bool]
}

func newDecisionCache(size int, ttl time.Duration) *decisionCache {
	if size <= 0 {
		size = 4096
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &decisionCache{lru: cache.NewLRU[bool](size, ttl)}
}

func (c *decisionCache) key(subject, object, action string) string {
	return subject + "\x00" + object + "\x00" + action
}

func (c *decisionCache) get(subject, object, action string) (allowed, ok bool) {
	return c.lru.Get(c.key(subject, object, action))
}

func (c *decisionCache) set(subject, object, action string, allowed bool) {
	c.lru.Add(c.key(subject, object, action), allowed)
}

func (c *decisionCache) clear() {
	c.lru.Clear()
}
