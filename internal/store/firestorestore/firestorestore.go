// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package firestorestore implements store.Store on Cloud Firestore.
//
// Layout:
//
//	<cache collection>/<place id>
//	users/<user id>/<history collection>/<record id>
//
// Cache writes use Set with MergeAll, which Firestore only accepts for map
// data, so entries are flattened to maps holding only their present fields.
// History batches go through a BulkWriter.
package firestorestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/models"
	"github.com/tomtom215/mealpick/internal/store"
)

const usersCollection = "users"

// Store is a Firestore-backed store.Store.
type Store struct {
	client            *firestore.Client
	cacheCollection   string
	historyCollection string
}

var _ store.Store = (*Store)(nil)

// Open creates a Firestore client for cfg.Firestore.ProjectID. With no
// credentials file, application default credentials (or the emulator named
// by FIRESTORE_EMULATOR_HOST) are used.
func Open(ctx context.Context, cfg *config.StoreConfig) (*Store, error) {
	var opts []option.ClientOption
	if cfg.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firestore.CredentialsFile))
	}

	databaseID := cfg.Firestore.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.Firestore.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	logging.Info().
		Str("project_id", cfg.Firestore.ProjectID).
		Str("database_id", databaseID).
		Msg("Firestore store ready")
	return New(client, cfg), nil
}

// New wraps an existing client.
func New(client *firestore.Client, cfg *config.StoreConfig) *Store {
	return &Store{
		client:            client,
		cacheCollection:   cfg.CacheCollection,
		historyCollection: cfg.HistoryCollection,
	}
}

// UpsertCandidate merges entry into the document keyed by its place id.
func (s *Store) UpsertCandidate(ctx context.Context, entry models.CacheEntry) error {
	_, err := s.client.Collection(s.cacheCollection).Doc(entry.ID).Set(ctx, cacheFields(entry), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("upsert candidate %s: %w", entry.ID, err)
	}
	return nil
}

// GetCandidate returns the cached document or store.ErrNotFound.
func (s *Store) GetCandidate(ctx context.Context, placeID string) (models.CacheEntry, error) {
	var entry models.CacheEntry

	snap, err := s.client.Collection(s.cacheCollection).Doc(placeID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return entry, store.ErrNotFound
	}
	if err != nil {
		return entry, fmt.Errorf("get candidate %s: %w", placeID, err)
	}
	if err := snap.DataTo(&entry); err != nil {
		return entry, fmt.Errorf("decode candidate %s: %w", placeID, err)
	}
	return entry, nil
}

// AppendHistory creates one document per record under the user's
// subcollection and waits for the whole batch.
func (s *Store) AppendHistory(ctx context.Context, userID string, records []models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	col := s.userHistory(userID)
	bw := s.client.BulkWriter(ctx)

	jobs := make([]*firestore.BulkWriterJob, 0, len(records))
	for i := range records {
		rec := records[i]
		rec.UserID = userID
		job, err := bw.Create(col.Doc(rec.ID), rec)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue history record %s: %w", rec.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("write history: %d of %d records failed: %w", len(errs), len(records), errors.Join(errs...))
	}
	return nil
}

// ListHistory returns up to limit records for userID, newest first.
func (s *Store) ListHistory(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error) {
	snaps, err := s.userHistory(userID).
		OrderBy("created_at", firestore.Desc).
		Limit(store.ClampLimit(limit)).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	records := make([]models.HistoryRecord, 0, len(snaps))
	for _, snap := range snaps {
		var rec models.HistoryRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode history record %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}

// Ping reads at most one cache document.
func (s *Store) Ping(ctx context.Context) error {
	iter := s.client.Collection(s.cacheCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("ping firestore: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) userHistory(userID string) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(s.historyCollection)
}

// cacheFields flattens entry to the fields it carries. Absent optional
// fields are left out so a merge keeps their stored values.
func cacheFields(entry models.CacheEntry) map[string]interface{} {
	fields := map[string]interface{}{
		"place_id": entry.ID,
		"name":     entry.Name,
	}
	if entry.Address != "" {
		fields["address"] = entry.Address
	}
	if entry.Lat != nil {
		fields["lat"] = *entry.Lat
	}
	if entry.Lng != nil {
		fields["lng"] = *entry.Lng
	}
	if entry.Rating != nil {
		fields["rating"] = *entry.Rating
	}
	if entry.PriceLevel != nil {
		fields["price_level"] = *entry.PriceLevel
	}
	if entry.PhotoRef != "" {
		fields["photo_ref"] = entry.PhotoRef
	}
	if !entry.UpdatedAt.IsZero() {
		fields["updated_at"] = entry.UpdatedAt
	}
	return fields
}
