// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package badgerstore implements store.Store on an embedded BadgerDB.
//
// Key layout:
//
//	cache:<place id>                                  -> CacheEntry JSON
//	history:<escaped user id>:<unix nanos>:<record id> -> HistoryRecord JSON
//
// The timestamp is zero padded so that lexical key order is chronological
// within a user's prefix. Listing iterates the prefix in reverse.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/models"
	"github.com/tomtom215/mealpick/internal/store"
)

const (
	cacheKeyPrefix   = "cache:"
	historyKeyPrefix = "history:"
)

// Store is a BadgerDB-backed store.Store.
type Store struct {
	db       *badger.DB
	cacheTTL time.Duration
	ownsDB   bool
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database described by cfg.
func Open(cfg *config.StoreConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Badger.Path)
	if cfg.Badger.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.Badger.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	s := New(db, cfg.CacheTTL)
	s.ownsDB = true
	return s, nil
}

// New wraps an already open database. A positive cacheTTL expires cache
// entries that are not refreshed in time.
func New(db *badger.DB, cacheTTL time.Duration) *Store {
	return &Store{db: db, cacheTTL: cacheTTL}
}

// UpsertCandidate merges entry into the stored document, resetting its TTL.
func (s *Store) UpsertCandidate(_ context.Context, entry models.CacheEntry) error {
	key := []byte(cacheKeyPrefix + entry.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		merged := entry

		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return fmt.Errorf("get candidate: %w", err)
		default:
			var existing models.CacheEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err != nil {
				return fmt.Errorf("decode candidate: %w", err)
			}
			merged = store.MergeCandidate(existing, entry)
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("marshal candidate: %w", err)
		}

		e := badger.NewEntry(key, data)
		if s.cacheTTL > 0 {
			e = e.WithTTL(s.cacheTTL)
		}
		return txn.SetEntry(e)
	})
}

// GetCandidate returns the cached document or store.ErrNotFound.
func (s *Store) GetCandidate(_ context.Context, placeID string) (models.CacheEntry, error) {
	var entry models.CacheEntry

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + placeID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get candidate: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	return entry, err
}

// AppendHistory writes all records in one transaction.
func (s *Store) AppendHistory(_ context.Context, userID string, records []models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for i := range records {
			rec := records[i]
			rec.UserID = userID

			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal history record: %w", err)
			}
			if err := txn.Set(historyKey(userID, rec.CreatedAt, rec.ID), data); err != nil {
				return fmt.Errorf("set history record: %w", err)
			}
		}
		return nil
	})
}

// ListHistory returns up to limit records for userID, newest first.
func (s *Store) ListHistory(_ context.Context, userID string, limit int) ([]models.HistoryRecord, error) {
	limit = store.ClampLimit(limit)
	prefix := historyPrefix(userID)
	records := make([]models.HistoryRecord, 0, limit)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the last key at or before the seek key.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(records) < limit; it.Next() {
			var rec models.HistoryRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode history record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Ping reports whether the database is open.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

// RunGC rewrites value log files until badger finds nothing left to
// reclaim at ratio. In-memory databases have no value log and return nil.
func (s *Store) RunGC(ratio float64) error {
	for {
		err := s.db.RunValueLogGC(ratio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("run value log gc: %w", err)
		}
	}
}

// Close closes the database if Open created it.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

func historyPrefix(userID string) []byte {
	return []byte(historyKeyPrefix + url.QueryEscape(userID) + ":")
}

func historyKey(userID string, createdAt time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", historyKeyPrefix, url.QueryEscape(userID), createdAt.UnixNano(), id))
}
