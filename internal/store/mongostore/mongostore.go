// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package mongostore implements store.Store on MongoDB.
//
// Cache documents use the place id as _id and are written with an upserting
// $set, so fields missing from an update keep their stored values. History
// records live in one collection indexed by (user_id, created_at desc).
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/models"
	"github.com/tomtom215/mealpick/internal/store"
)

// Store is a MongoDB-backed store.Store.
type Store struct {
	client  *mongo.Client
	cache   *mongo.Collection
	history *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials cfg.Mongo.URI, verifies the connection and ensures indexes.
func Connect(ctx context.Context, cfg *config.StoreConfig) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := New(client, cfg)
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.Info().
		Str("database", cfg.Mongo.Database).
		Str("cache_collection", cfg.CacheCollection).
		Str("history_collection", cfg.HistoryCollection).
		Msg("MongoDB store connected")
	return s, nil
}

// New wraps an existing client.
func New(client *mongo.Client, cfg *config.StoreConfig) *Store {
	db := client.Database(cfg.Mongo.Database)
	return &Store{
		client:  client,
		cache:   db.Collection(cfg.CacheCollection),
		history: db.Collection(cfg.HistoryCollection),
	}
}

// EnsureIndexes creates the history listing index if it does not exist.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	if err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

// UpsertCandidate merges entry into the document keyed by its place id.
func (s *Store) UpsertCandidate(ctx context.Context, entry models.CacheEntry) error {
	_, err := s.cache.UpdateOne(ctx,
		bson.M{"_id": entry.ID},
		bson.M{"$set": entry},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert candidate %s: %w", entry.ID, err)
	}
	return nil
}

// GetCandidate returns the cached document or store.ErrNotFound.
func (s *Store) GetCandidate(ctx context.Context, placeID string) (models.CacheEntry, error) {
	var entry models.CacheEntry
	err := s.cache.FindOne(ctx, bson.M{"_id": placeID}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entry, store.ErrNotFound
	}
	if err != nil {
		return entry, fmt.Errorf("get candidate %s: %w", placeID, err)
	}
	return entry, nil
}

// AppendHistory inserts records in one unordered InsertMany.
func (s *Store) AppendHistory(ctx context.Context, userID string, records []models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i := range records {
		rec := records[i]
		rec.UserID = userID
		docs[i] = rec
	}

	if _, err := s.history.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListHistory returns up to limit records for userID, newest first.
func (s *Store) ListHistory(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(store.ClampLimit(limit)))

	cursor, err := s.history.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}

	records := []models.HistoryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
