// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Package metastore persists library item metadata in BadgerDB. It backs the
// recommendation engine's MetadataStore interface: point lookups join watch
// history to metadata, prefix scans enumerate the candidate pool.
package metastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/curatarr/curatarr/internal/recommend"
)

// itemKeyPrefix namespaces item records. Full key: item:<type>:<id>.
const itemKeyPrefix = "item:"

// Store is a BadgerDB-backed metadata store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store. Used in tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory metadata store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func itemKey(mediaType recommend.MediaType, id string) []byte {
	return []byte(itemKeyPrefix + string(mediaType) + ":" + id)
}

// Put upserts an item. The item must carry its Type and ID.
func (s *Store) Put(_ context.Context, item *recommend.Item) error {
	if item.ID == "" || item.Type == "" {
		return errors.New("item requires ID and Type")
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", item.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(itemKey(item.Type, item.ID), data)
	})
}

// PutBatch upserts many items in write batches, used by library sync.
func (s *Store) PutBatch(_ context.Context, items []recommend.Item) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range items {
		item := &items[i]
		if item.ID == "" || item.Type == "" {
			return fmt.Errorf("item %d requires ID and Type", i)
		}
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal item %s: %w", item.ID, err)
		}
		if err := wb.Set(itemKey(item.Type, item.ID), data); err != nil {
			return fmt.Errorf("batch set item %s: %w", item.ID, err)
		}
	}
	return wb.Flush()
}

// Get returns the item with the given ID, searching both media types.
// Returns recommend.ErrNotFound when absent.
func (s *Store) Get(_ context.Context, id string) (*recommend.Item, error) {
	var result *recommend.Item

	err := s.db.View(func(txn *badger.Txn) error {
		for _, mt := range []recommend.MediaType{recommend.MediaTypeMovie, recommend.MediaTypeTV} {
			entry, err := txn.Get(itemKey(mt, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get item %s: %w", id, err)
			}
			return entry.Value(func(val []byte) error {
				item := &recommend.Item{}
				if err := json.Unmarshal(val, item); err != nil {
					return fmt.Errorf("unmarshal item %s: %w", id, err)
				}
				result = item
				return nil
			})
		}
		return recommend.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// All returns every item of the given media type via a prefix scan.
func (s *Store) All(_ context.Context, mediaType recommend.MediaType) ([]recommend.Item, error) {
	prefix := []byte(itemKeyPrefix + string(mediaType) + ":")
	var items []recommend.Item

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var item recommend.Item
				if err := json.Unmarshal(val, &item); err != nil {
					return fmt.Errorf("unmarshal item %s: %w", it.Item().Key(), err)
				}
				items = append(items, item)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an item.
func (s *Store) Delete(_ context.Context, mediaType recommend.MediaType, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(itemKey(mediaType, id))
	})
}
