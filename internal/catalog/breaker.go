// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/metrics"
)

// ErrUnavailable means the backing store is failing and lookups are being
// short-circuited.
var ErrUnavailable = errors.New("catalog: store unavailable")

// BreakerSettings configures a BreakerStore.
type BreakerSettings struct {
	Name        string
	MaxFailures uint32        // consecutive failures that open the circuit
	OpenTimeout time.Duration // time spent open before probing again
}

// BreakerStore guards a Store with a circuit breaker. Lookups for unknown
// IDs and cancelled requests are answers, not failures, and never trip it.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[*Entry]
	name string
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, s BreakerSettings) *BreakerStore {
	if s.Name == "" {
		s.Name = "catalog"
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Entry](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= s.MaxFailures
			if trip {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		IsSuccessful: isLookupAnswer,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &BreakerStore{next: next, cb: cb, name: s.Name}
}

func isLookupAnswer(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// Get implements Store.
func (b *BreakerStore) Get(ctx context.Context, id string) (*Entry, error) {
	e, err := b.cb.Execute(func() (*Entry, error) {
		return b.next.Get(ctx, id)
	})
	return e, b.observe(err)
}

// List implements Store.
func (b *BreakerStore) List(ctx context.Context) ([]*Entry, error) {
	var out []*Entry
	_, err := b.cb.Execute(func() (*Entry, error) {
		var err error
		out, err = b.next.List(ctx)
		return nil, err
	})
	if err = b.observe(err); err != nil {
		return nil, err
	}
	return out, nil
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerStore) State() string {
	return stateToString(b.cb.State())
}

func (b *BreakerStore) observe(err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case isLookupAnswer(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return err
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
