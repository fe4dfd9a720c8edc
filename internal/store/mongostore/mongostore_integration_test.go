// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

//go:build integration

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/models"
	"github.com/tomtom215/mealpick/internal/store"
	"github.com/tomtom215/mealpick/internal/testinfra"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	mongo, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, mongo) })

	s, err := Connect(ctx, &config.StoreConfig{
		CacheCollection:   "restaurant_cache",
		HistoryCollection: "suggestion_history",
		Mongo: config.MongoConfig{
			URI:            mongo.URI,
			Database:       "mealpick_test",
			ConnectTimeout: 30 * time.Second,
		},
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMongoStore(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	t.Run("upsert merges", func(t *testing.T) {
		rating := 4.5
		price := 1
		if err := s.UpsertCandidate(ctx, models.CacheEntry{
			Candidate: models.Candidate{ID: "p1", Name: "Jerk Centre", Rating: &rating},
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("first upsert: %v", err)
		}
		if err := s.UpsertCandidate(ctx, models.CacheEntry{
			Candidate: models.Candidate{ID: "p1", Name: "Jerk Centre", PriceLevel: &price},
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		got, err := s.GetCandidate(ctx, "p1")
		if err != nil {
			t.Fatalf("GetCandidate() error = %v", err)
		}
		if got.ID != "p1" || got.Rating == nil || *got.Rating != 4.5 || got.PriceLevel == nil || *got.PriceLevel != 1 {
			t.Errorf("merged entry = %+v", got)
		}
	})

	t.Run("missing candidate", func(t *testing.T) {
		if _, err := s.GetCandidate(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("error = %v, want store.ErrNotFound", err)
		}
	})

	t.Run("history newest first", func(t *testing.T) {
		base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		var records []models.HistoryRecord
		for i := 0; i < 4; i++ {
			records = append(records, models.HistoryRecord{
				ID:         fmt.Sprintf("r%d", i),
				Suggestion: models.Suggestion{Candidate: models.Candidate{ID: "p", Name: "P"}, Score: float64(i)},
				CreatedAt:  base.Add(time.Duration(i) * time.Second),
			})
		}
		if err := s.AppendHistory(ctx, "user-1", records); err != nil {
			t.Fatalf("AppendHistory() error = %v", err)
		}

		got, err := s.ListHistory(ctx, "user-1", 2)
		if err != nil {
			t.Fatalf("ListHistory() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != "r3" || got[1].ID != "r2" {
			t.Errorf("ListHistory() = %+v, want r3, r2", got)
		}

		other, err := s.ListHistory(ctx, "user-2", 10)
		if err != nil || len(other) != 0 {
			t.Errorf("ListHistory(user-2) = %v, %v; want empty", other, err)
		}
	})

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
