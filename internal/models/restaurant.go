// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package models defines the data structures shared by the suggestion
// pipeline, the stores and the HTTP API.
//
// Struct tags serve three encoders: json for the API and queue payloads,
// bson for MongoDB and firestore for Cloud Firestore. Optional values from
// the places API are pointers so that "absent" and "zero" stay distinct
// (a price level of 0 means "free", not "unknown").
package models

import "time"

// UserPreferences are the caller's slider settings for one request.
// Level fields are slider positions in [0,100].
type UserPreferences struct {
	Latitude       float64 `json:"latitude" bson:"latitude" firestore:"latitude" validate:"min=-90,max=90"`
	Longitude      float64 `json:"longitude" bson:"longitude" firestore:"longitude" validate:"min=-180,max=180"`
	MoodLevel      float64 `json:"mood_level" bson:"mood_level" firestore:"mood_level" validate:"min=0,max=100"`
	HungerLevel    float64 `json:"hunger_level" bson:"hunger_level" firestore:"hunger_level" validate:"min=0,max=100"`
	DinePreference float64 `json:"dine_preference" bson:"dine_preference" firestore:"dine_preference" validate:"min=0,max=100"`
	BudgetLevel    float64 `json:"budget_level" bson:"budget_level" firestore:"budget_level" validate:"min=0,max=100"`
	SpicyLevel     float64 `json:"spicy_level" bson:"spicy_level" firestore:"spicy_level" validate:"min=0,max=100"`
}

// Candidate is one establishment returned by a nearby search, before filtering.
type Candidate struct {
	ID         string   `json:"id" bson:"place_id" firestore:"place_id"`
	Name       string   `json:"name" bson:"name" firestore:"name"`
	Address    string   `json:"address,omitempty" bson:"address,omitempty" firestore:"address,omitempty"`
	Lat        *float64 `json:"lat,omitempty" bson:"lat,omitempty" firestore:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty" bson:"lng,omitempty" firestore:"lng,omitempty"`
	Rating     *float64 `json:"rating,omitempty" bson:"rating,omitempty" firestore:"rating,omitempty"`
	PriceLevel *int     `json:"price_level,omitempty" bson:"price_level,omitempty" firestore:"price_level,omitempty"`
	PhotoRef   string   `json:"photo_ref,omitempty" bson:"photo_ref,omitempty" firestore:"photo_ref,omitempty"`
}

// HasLocation reports whether both coordinates are present.
func (c *Candidate) HasLocation() bool {
	return c.Lat != nil && c.Lng != nil
}

// Suggestion is a Candidate that survived filtering, with its distance from
// the caller and its composite score.
type Suggestion struct {
	Candidate      `bson:",inline"`
	DistanceMeters int     `json:"distance_meters" bson:"distance_meters" firestore:"distance_meters"`
	Score          float64 `json:"score" bson:"score" firestore:"score"`
}

// CacheEntry is the cached copy of a candidate, keyed by Candidate.ID.
// Writes merge into the existing document; the last write wins.
type CacheEntry struct {
	Candidate `bson:",inline"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" firestore:"updated_at"`
}

// HistoryRecord is one returned suggestion, stored under the caller's
// namespace together with the preferences that produced it.
// Records are append-only.
type HistoryRecord struct {
	ID          string          `json:"id" bson:"_id" firestore:"-"`
	UserID      string          `json:"user_id" bson:"user_id" firestore:"user_id"`
	Suggestion  Suggestion      `json:"suggestion" bson:"suggestion" firestore:"suggestion"`
	Preferences UserPreferences `json:"preferences" bson:"preferences" firestore:"preferences"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at" firestore:"created_at"`
}
