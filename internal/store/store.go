// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package store defines the persistence contract shared by the document
// store backends.
//
// Two collections are kept:
//
//   - the candidate cache, one document per place id, merge-upserted on
//     every fetch (last write wins, no versioning)
//   - suggestion history, append-only records grouped per user
//
// Backends live in subpackages: mongostore (MongoDB), firestorestore
// (Cloud Firestore) and badgerstore (embedded BadgerDB).
package store

import (
	"context"
	"errors"

	"github.com/tomtom215/mealpick/internal/models"
)

// Backend names accepted by configuration.
const (
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendBadger    = "badger"
)

// History listing bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ErrNotFound is returned when a keyed document does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is implemented by every backend.
type Store interface {
	// UpsertCandidate merges entry into the cached document keyed by entry.ID.
	// Absent optional fields leave stored values untouched.
	UpsertCandidate(ctx context.Context, entry models.CacheEntry) error

	// GetCandidate returns the cached document for placeID or ErrNotFound.
	GetCandidate(ctx context.Context, placeID string) (models.CacheEntry, error)

	// AppendHistory writes records under userID's namespace in one batch.
	AppendHistory(ctx context.Context, userID string, records []models.HistoryRecord) error

	// ListHistory returns userID's most recent records, newest first.
	ListHistory(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	Close() error
}

// ClampLimit maps a requested history limit into [1, MaxHistoryLimit],
// using DefaultHistoryLimit for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}

// MergeCandidate overlays the present fields of update onto existing.
// Backends without a native merge write use it.
func MergeCandidate(existing, update models.CacheEntry) models.CacheEntry {
	merged := existing
	merged.ID = update.ID
	if update.Name != "" {
		merged.Name = update.Name
	}
	if update.Address != "" {
		merged.Address = update.Address
	}
	if update.Lat != nil {
		merged.Lat = update.Lat
	}
	if update.Lng != nil {
		merged.Lng = update.Lng
	}
	if update.Rating != nil {
		merged.Rating = update.Rating
	}
	if update.PriceLevel != nil {
		merged.PriceLevel = update.PriceLevel
	}
	if update.PhotoRef != "" {
		merged.PhotoRef = update.PhotoRef
	}
	if !update.UpdatedAt.IsZero() {
		merged.UpdatedAt = update.UpdatedAt
	}
	return merged
}
