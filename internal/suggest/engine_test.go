// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package suggest

import (
	"fmt"
	"math"
	"testing"

	"github.com/tomtom215/mealpick/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// kingston is the caller location used across the ranking tests.
func kingston() models.UserPreferences {
	return models.UserPreferences{
		Latitude:       18.01,
		Longitude:      -76.80,
		MoodLevel:      50,
		HungerLevel:    50,
		DinePreference: 20,
		BudgetLevel:    10,
		SpicyLevel:     50,
	}
}

// at returns a candidate roughly northMeters due north of kingston().
func at(id string, northMeters float64) models.Candidate {
	return models.Candidate{
		ID:   id,
		Name: "Place " + id,
		Lat:  floatPtr(18.01 + northMeters/111195.0),
		Lng:  floatPtr(-76.80),
	}
}

func TestNewQuery_KingstonScenario(t *testing.T) {
	t.Parallel()

	q := NewQuery(kingston())
	if q.Radius == nil || *q.Radius != 1000 {
		t.Fatalf("Radius = %v, want 1000", q.Radius)
	}
	if len(q.Allowed) != 2 || !q.Allowed.Contains(0) || !q.Allowed.Contains(1) {
		t.Errorf("Allowed = %v, want [0 1]", q.Allowed)
	}
}

func TestRank_ExcludesDisallowedPriceRegardlessOfDistance(t *testing.T) {
	t.Parallel()

	near := models.Candidate{ID: "p2", Name: "Pricey", Lat: floatPtr(18.01), Lng: floatPtr(-76.80), PriceLevel: intPtr(2), Rating: floatPtr(5)}
	cheap := at("p1", 100)
	cheap.PriceLevel = intPtr(1)

	res := NewEngine().Rank(NewQuery(kingston()), []models.Candidate{near, cheap})

	if len(res.Top) != 1 || res.Top[0].ID != "p1" {
		t.Fatalf("Top = %+v, want only p1", res.Top)
	}
}

func TestRank_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate models.Candidate
		kept      bool
	}{
		{"missing id", models.Candidate{Name: "No ID"}, false},
		{"missing name", models.Candidate{ID: "x"}, false},
		{"no coordinates is at origin", models.Candidate{ID: "x", Name: "Here"}, true},
		{"only latitude is at origin", models.Candidate{ID: "x", Name: "Half", Lat: floatPtr(40)}, true},
		{"price absent is kept", at("x", 10), true},
		{"allowed price", func() models.Candidate { c := at("x", 10); c.PriceLevel = intPtr(0); return c }(), true},
		{"disallowed price", func() models.Candidate { c := at("x", 10); c.PriceLevel = intPtr(3); return c }(), false},
		{"inside radius", at("x", 990), true},
		{"outside radius", at("x", 1100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := NewEngine().Rank(NewQuery(kingston()), []models.Candidate{tt.candidate})
			if got := len(res.Survivors) == 1; got != tt.kept {
				t.Errorf("kept = %v, want %v", got, tt.kept)
			}
		})
	}
}

func TestRank_NoRadiusKeepsFarCandidates(t *testing.T) {
	t.Parallel()

	prefs := kingston()
	prefs.DinePreference = 95

	res := NewEngine().Rank(NewQuery(prefs), []models.Candidate{at("far", 50000)})
	if len(res.Top) != 1 {
		t.Fatalf("len(Top) = %d, want 1", len(res.Top))
	}
	if d := res.Top[0].DistanceMeters; d < 49990 || d > 50010 {
		t.Errorf("DistanceMeters = %d, want about 50000", d)
	}
}

func TestRank_Score(t *testing.T) {
	t.Parallel()

	rated := at("rated", 500)
	rated.Rating = floatPtr(4.5)
	unrated := at("unrated", 500)

	res := NewEngine().Rank(NewQuery(kingston()), []models.Candidate{rated, unrated})
	if len(res.Survivors) != 2 {
		t.Fatalf("len(Survivors) = %d, want 2", len(res.Survivors))
	}

	for _, s := range res.Survivors {
		rating := DefaultRating
		if s.Rating != nil {
			rating = *s.Rating
		}
		// Score uses the unrounded distance, so allow for the rounding.
		want := rating - float64(s.DistanceMeters)/DistancePenaltyMeters
		if math.Abs(s.Score-want) > 0.0001 {
			t.Errorf("%s: Score = %v, want about %v", s.ID, s.Score, want)
		}
	}

	if got := res.Survivors[1].Score; math.Abs(got-(3.0-0.05)) > 0.001 {
		t.Errorf("unrated score = %v, want about 2.95", got)
	}
}

func TestRank_ZeroCandidates(t *testing.T) {
	t.Parallel()

	res := NewEngine().Rank(NewQuery(kingston()), nil)
	if res.Top == nil {
		t.Fatal("Top is nil, want empty slice")
	}
	if len(res.Top) != 0 || len(res.Survivors) != 0 {
		t.Errorf("got %d top, %d survivors, want none", len(res.Top), len(res.Survivors))
	}
}

func TestRank_AllFilteredOut(t *testing.T) {
	t.Parallel()

	c := at("x", 10)
	c.PriceLevel = intPtr(4)
	res := NewEngine().Rank(NewQuery(kingston()), []models.Candidate{c, {Name: "anon"}})
	if res.Top == nil || len(res.Top) != 0 {
		t.Errorf("Top = %v, want empty non-nil slice", res.Top)
	}
}

func TestRank_SortedTruncatedAndInvariant(t *testing.T) {
	t.Parallel()

	var candidates []models.Candidate
	for i := 0; i < 12; i++ {
		c := at(fmt.Sprintf("c%02d", i), float64(i*150))
		c.Rating = floatPtr(float64(i%5) + 0.5)
		if i%3 == 0 {
			c.PriceLevel = intPtr(i % 5)
		}
		candidates = append(candidates, c)
	}

	q := NewQuery(kingston())
	res := NewEngine().Rank(q, candidates)

	if len(res.Top) > MaxSuggestions {
		t.Fatalf("len(Top) = %d, want <= %d", len(res.Top), MaxSuggestions)
	}
	for i, s := range res.Top {
		if i > 0 && s.Score > res.Top[i-1].Score {
			t.Errorf("Top[%d].Score %v > Top[%d].Score %v", i, s.Score, i-1, res.Top[i-1].Score)
		}
		if s.DistanceMeters > *q.Radius {
			t.Errorf("%s: distance %d exceeds radius %d", s.ID, s.DistanceMeters, *q.Radius)
		}
		if s.PriceLevel != nil && !q.Allowed.Contains(*s.PriceLevel) {
			t.Errorf("%s: price level %d not in %v", s.ID, *s.PriceLevel, q.Allowed)
		}
	}
}

func TestRank_StableForEqualScores(t *testing.T) {
	t.Parallel()

	var candidates []models.Candidate
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		candidates = append(candidates, models.Candidate{ID: id, Name: id, Rating: floatPtr(4)})
	}

	res := NewEngine().Rank(NewQuery(kingston()), candidates)

	want := []string{"a", "b", "c", "d", "e"}
	if len(res.Top) != len(want) {
		t.Fatalf("len(Top) = %d, want %d", len(res.Top), len(want))
	}
	for i, id := range want {
		if res.Top[i].ID != id {
			t.Errorf("Top[%d] = %s, want %s", i, res.Top[i].ID, id)
		}
	}
}

func TestRank_SurvivorsKeepInputOrder(t *testing.T) {
	t.Parallel()

	low := at("low", 10)
	low.Rating = floatPtr(1)
	high := at("high", 10)
	high.Rating = floatPtr(5)

	res := NewEngine().Rank(NewQuery(kingston()), []models.Candidate{low, high})
	if res.Survivors[0].ID != "low" || res.Top[0].ID != "high" {
		t.Errorf("Survivors[0] = %s, Top[0] = %s, want low and high", res.Survivors[0].ID, res.Top[0].ID)
	}
}

func TestRank_ScoreAdjusters(t *testing.T) {
	t.Parallel()

	boostSpicy := ScoreAdjusterFunc(func(prefs models.UserPreferences, s *models.Suggestion) float64 {
		if s.ID == "jerk" && prefs.SpicyLevel > 70 {
			return 2
		}
		return 0
	})

	plain := models.Candidate{ID: "plain", Name: "Plain", Rating: floatPtr(4)}
	jerk := models.Candidate{ID: "jerk", Name: "Jerk Centre", Rating: floatPtr(3)}

	prefs := kingston()
	prefs.SpicyLevel = 90

	res := NewEngine(WithScoreAdjusters(boostSpicy)).Rank(NewQuery(prefs), []models.Candidate{plain, jerk})
	if res.Top[0].ID != "jerk" || res.Top[0].Score != 5 {
		t.Errorf("Top[0] = %s (%v), want jerk (5)", res.Top[0].ID, res.Top[0].Score)
	}

	// Without adjusters spice preference has no effect.
	res = NewEngine().Rank(NewQuery(prefs), []models.Candidate{plain, jerk})
	if res.Top[0].ID != "plain" {
		t.Errorf("Top[0] = %s, want plain", res.Top[0].ID)
	}
}
