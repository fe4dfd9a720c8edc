// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package validation

import (
	"fmt"

	"github.com/tomtom215/mealpick/internal/models"
)

// preferenceFields lists the required payload keys in report order.
var preferenceFields = []string{
	"latitude",
	"longitude",
	"mood_level",
	"hunger_level",
	"dine_preference",
	"budget_level",
	"spicy_level",
}

// DecodePreferences turns a loosely typed JSON object into UserPreferences.
//
// Every key must be present and hold a JSON number. Keys that pass the type
// check are then range checked. All violations are returned together; a
// field that fails the type check is not range checked.
func DecodePreferences(raw map[string]interface{}) (models.UserPreferences, *RequestValidationError) {
	if raw == nil {
		return models.UserPreferences{}, NewRequestValidationError(
			NewFieldError("preferences", "required", nil, "preferences is required"))
	}

	values := make(map[string]float64, len(preferenceFields))
	var errs []ValidationError
	for _, field := range preferenceFields {
		v, present := raw[field]
		if !present || v == nil {
			errs = append(errs, NewFieldError(field, "required", nil, fmt.Sprintf("%s is required", field)))
			continue
		}
		n, ok := toFloat(v)
		if !ok {
			errs = append(errs, NewFieldError(field, "numeric", v, fmt.Sprintf("%s must be a number", field)))
			continue
		}
		values[field] = n
	}

	prefs := models.UserPreferences{
		Latitude:       values["latitude"],
		Longitude:      values["longitude"],
		MoodLevel:      values["mood_level"],
		HungerLevel:    values["hunger_level"],
		DinePreference: values["dine_preference"],
		BudgetLevel:    values["budget_level"],
		SpicyLevel:     values["spicy_level"],
	}

	if rangeErrs := ValidateStruct(&prefs); rangeErrs != nil {
		for _, e := range rangeErrs.Errors() {
			if _, typed := values[e.field]; typed {
				errs = append(errs, e)
			}
		}
	}

	if len(errs) > 0 {
		return models.UserPreferences{}, NewRequestValidationError(errs...)
	}
	return prefs, nil
}

// toFloat accepts the numeric types a JSON decoder can produce.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
