// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package store

import (
	"testing"
	"time"

	"github.com/tomtom215/mealpick/internal/models"
)

func TestClampLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{-1, DefaultHistoryLimit},
		{0, DefaultHistoryLimit},
		{1, 1},
		{50, 50},
		{100, 100},
		{101, MaxHistoryLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMergeCandidate(t *testing.T) {
	t.Parallel()

	rating := 4.2
	price := 1
	lat, lng := 18.0, -76.8
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	existing := models.CacheEntry{
		Candidate: models.Candidate{ID: "p", Name: "Old", Address: "1 Main St", Lat: &lat, Lng: &lng, Rating: &rating, PhotoRef: "ref"},
		UpdatedAt: t0,
	}
	update := models.CacheEntry{
		Candidate: models.Candidate{ID: "p", Name: "New", PriceLevel: &price},
		UpdatedAt: t1,
	}

	got := MergeCandidate(existing, update)

	if got.Name != "New" || got.Address != "1 Main St" || got.PhotoRef != "ref" {
		t.Errorf("strings = %q %q %q", got.Name, got.Address, got.PhotoRef)
	}
	if got.Rating == nil || *got.Rating != 4.2 {
		t.Errorf("Rating = %v, want preserved 4.2", got.Rating)
	}
	if got.PriceLevel == nil || *got.PriceLevel != 1 {
		t.Errorf("PriceLevel = %v, want 1", got.PriceLevel)
	}
	if !got.HasLocation() || !got.UpdatedAt.Equal(t1) {
		t.Errorf("location %v or UpdatedAt %v not merged", got.HasLocation(), got.UpdatedAt)
	}
}
