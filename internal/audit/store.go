// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package audit

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the most recent events in a fixed-size ring. Data is
// lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	next   int // slot the next event is written to
	full   bool
}

// NewMemoryStore creates a ring of maxLen events.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{events: make([]Event, maxLen)}
}

// Save stores event, overwriting the oldest when full.
func (s *MemoryStore) Save(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[s.next] = *event
	s.next++
	if s.next == len(s.events) {
		s.next = 0
		s.full = true
	}
	return nil
}

// Query returns matching events, newest first.
func (s *MemoryStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Event
	for i := 0; i < s.lenLocked(); i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		event := s.newestLocked(i)
		if !matchesFilter(event, &filter) {
			continue
		}
		results = append(results, *event)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// Count returns the number of matching events.
func (s *MemoryStore) Count(_ context.Context, filter QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for i := 0; i < s.lenLocked(); i++ {
		if matchesFilter(s.newestLocked(i), &filter) {
			count++
		}
	}
	return count, nil
}

// Len returns the number of events held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lenLocked()
}

func (s *MemoryStore) lenLocked() int {
	if s.full {
		return len(s.events)
	}
	return s.next
}

// newestLocked returns the i-th newest event (0 is the latest).
func (s *MemoryStore) newestLocked(i int) *Event {
	idx := s.next - 1 - i
	if idx < 0 {
		idx += len(s.events)
	}
	return &s.events[idx]
}

func matchesFilter(event *Event, filter *QueryFilter) bool {
	if len(filter.Types) > 0 && !slices.Contains(filter.Types, event.Type) {
		return false
	}
	if len(filter.Outcomes) > 0 && !slices.Contains(filter.Outcomes, event.Outcome) {
		return false
	}
	if filter.ActorID != "" && event.Actor.ID != filter.ActorID {
		return false
	}
	if filter.TargetID != "" && (event.Target == nil || event.Target.ID != filter.TargetID) {
		return false
	}
	if filter.SourceIP != "" && event.Source.IPAddress != filter.SourceIP {
		return false
	}
	if filter.StartTime != nil && event.Timestamp.Before(*filter.StartTime) {
		return false
	}
	if filter.EndTime != nil && event.Timestamp.After(*filter.EndTime) {
		return false
	}
	return true
}
