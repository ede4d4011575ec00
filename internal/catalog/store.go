// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"fmt"
)

// Store looks up classified catalog entries. Implementations are safe for
// concurrent use and return ErrNotFound for unknown IDs.
type Store interface {
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
}

// snapshot is an immutable, fully classified view of the catalog.
type snapshot struct {
	byID    map[string]*Entry
	ordered []*Entry
}

// buildSnapshot classifies items. Items that cannot be classified are
// skipped and reported; duplicate IDs keep the first occurrence, matching
// a front-to-back find over the document.
func buildSnapshot(items []Item, c *Classifier) (*snapshot, []error) {
	s := &snapshot{byID: make(map[string]*Entry, len(items))}
	var problems []error
	for _, item := range items {
		if item.ID == "" {
			problems = append(problems, fmt.Errorf("item %q has no id", item.Title))
			continue
		}
		if _, dup := s.byID[item.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate id %q ignored", item.ID))
			continue
		}
		src, err := c.Classify(item)
		if err != nil {
			problems = append(problems, fmt.Errorf("item %q: %w", item.ID, err))
			continue
		}
		e := &Entry{Item: item, Source: src}
		s.byID[item.ID] = e
		s.ordered = append(s.ordered, e)
	}
	return s, problems
}

func (s *snapshot) get(id string) (*Entry, error) {
	if e, ok := s.byID[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *snapshot) list() []*Entry {
	out := make([]*Entry, len(s.ordered))
	copy(out, s.ordered)
	return out
}
