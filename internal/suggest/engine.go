// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package suggest

import (
	"math"
	"sort"

	"github.com/tomtom215/mealpick/internal/geo"
	"github.com/tomtom215/mealpick/internal/models"
)

const (
	// DefaultRating is used for candidates the places API returned without a rating.
	DefaultRating = 3.0

	// DistancePenaltyMeters is the distance that costs one rating point.
	DistancePenaltyMeters = 10000.0

	// MaxSuggestions is the number of suggestions returned per request.
	MaxSuggestions = 5
)

// ScoreAdjuster adds a bonus (or penalty) to a suggestion's base score.
//
// No adjusters are registered by default. Mood and spice preferences are
// carried through to adjusters but do not change the score on their own.
type ScoreAdjuster interface {
	Adjust(prefs models.UserPreferences, s *models.Suggestion) float64
}

// ScoreAdjusterFunc adapts a function to ScoreAdjuster.
type ScoreAdjusterFunc func(prefs models.UserPreferences, s *models.Suggestion) float64

// Adjust calls f.
func (f ScoreAdjusterFunc) Adjust(prefs models.UserPreferences, s *models.Suggestion) float64 {
	return f(prefs, s)
}

// Query is the per-request input to the engine.
type Query struct {
	Preferences models.UserPreferences
	Radius      *int
	Allowed     PriceSet
}

// NewQuery derives the radius and price set from prefs.
func NewQuery(prefs models.UserPreferences) Query {
	return Query{
		Preferences: prefs,
		Radius:      Radius(prefs.DinePreference),
		Allowed:     PriceLevels(prefs.BudgetLevel),
	}
}

// Result holds the engine output for one request.
type Result struct {
	// Survivors are the candidates that passed every filter, in input order.
	Survivors []models.Suggestion

	// Top is Survivors sorted by score (stable, descending) and truncated.
	Top []models.Suggestion
}

// Engine filters and scores candidates.
type Engine struct {
	adjusters []ScoreAdjuster
	limit     int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithScoreAdjusters registers score adjusters, applied in order.
func WithScoreAdjusters(adjusters ...ScoreAdjuster) EngineOption {
	return func(e *Engine) {
		e.adjusters = append(e.adjusters, adjusters...)
	}
}

// NewEngine creates an engine returning at most MaxSuggestions results.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{limit: MaxSuggestions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank applies the filters to candidates in input order, scores the
// survivors and returns them together with the top suggestions.
//
// Filters, in order: missing id or name; price level present and not
// allowed; distance beyond the radius (when a radius is set). Candidates
// without coordinates are treated as being at the caller's location.
func (e *Engine) Rank(q Query, candidates []models.Candidate) Result {
	origin := geo.Point{Lat: q.Preferences.Latitude, Lng: q.Preferences.Longitude}

	survivors := make([]models.Suggestion, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		if c.ID == "" || c.Name == "" {
			continue
		}
		if c.PriceLevel != nil && !q.Allowed.Contains(*c.PriceLevel) {
			continue
		}

		distance := 0.0
		if c.HasLocation() {
			distance = geo.DistanceMeters(origin, geo.Point{Lat: *c.Lat, Lng: *c.Lng})
		}
		if q.Radius != nil && distance > float64(*q.Radius) {
			continue
		}

		rating := DefaultRating
		if c.Rating != nil {
			rating = *c.Rating
		}

		s := models.Suggestion{
			Candidate:      c,
			DistanceMeters: int(math.Round(distance)),
			Score:          rating - distance/DistancePenaltyMeters,
		}
		for _, adj := range e.adjusters {
			s.Score += adj.Adjust(q.Preferences, &s)
		}
		survivors = append(survivors, s)
	}

	ranked := make([]models.Suggestion, len(survivors))
	copy(ranked, survivors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > e.limit {
		ranked = ranked[:e.limit]
	}

	return Result{Survivors: survivors, Top: ranked}
}
