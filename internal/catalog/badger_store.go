// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const itemKeyPrefix = "catalog:item:"

// BadgerStore keeps catalog items in BadgerDB. Items are stored raw and
// classified on every read, so a change to the classifier configuration
// applies without rewriting the database.
type BadgerStore struct {
	db         *badger.DB
	classifier *Classifier
	owned      bool
}

// OpenBadgerStore opens (or creates) a Badger database in dir.
func OpenBadgerStore(dir string, classifier *Classifier) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog badger db at %s: %w", dir, err)
	}
	return &BadgerStore{db: db, classifier: classifier, owned: true}, nil
}

// NewBadgerStore wraps an already open database. Close leaves db open.
func NewBadgerStore(db *badger.DB, classifier *Classifier) *BadgerStore {
	return &BadgerStore{db: db, classifier: classifier}
}

// Close closes the database if this store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces item. The item must classify cleanly.
func (s *BadgerStore) Put(ctx context.Context, item Item) error {
	return s.Import(ctx, []Item{item})
}

// Import writes items in a single transaction. Nothing is written if any
// item fails classification.
func (s *BadgerStore) Import(ctx context.Context, items []Item) error {
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("import: item %q has no id", item.Title)
		}
		if _, err := s.classifier.Classify(item); err != nil {
			return fmt.Errorf("import item %q: %w", item.ID, err)
		}
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("marshal item %q: %w", item.ID, err)
			}
			if err := txn.Set([]byte(itemKeyPrefix+item.ID), data); err != nil {
				return fmt.Errorf("set item %q: %w", item.ID, err)
			}
		}
		return nil
	})
}

// Delete removes id. Deleting a missing id is not an error.
func (s *BadgerStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(itemKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Get implements Store.
func (s *BadgerStore) Get(ctx context.Context, id string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var item Item
	err := s.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get([]byte(itemKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("get item %q: %w", id, err)
		}
		return it.Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		})
	})
	if err != nil {
		return nil, err
	}

	src, err := s.classifier.Classify(item)
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", id, err)
	}
	return &Entry{Item: item, Source: src}, nil
}

// List implements Store, in key (ID) order. Items that no longer classify
// are skipped.
func (s *BadgerStore) List(ctx context.Context) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(itemKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var item Item
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			src, err := s.classifier.Classify(item)
			if err != nil {
				continue
			}
			entries = append(entries, &Entry{Item: item, Source: src})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return entries, nil
}
