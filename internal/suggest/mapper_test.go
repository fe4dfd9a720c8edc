// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package suggest

import (
	"math"
	"reflect"
	"testing"
)

func TestRadius(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pref float64
		want int // 0 means nil
	}{
		{0, 500},
		{10, 500},
		{10.5, 1000},
		{20, 1000},
		{30, 1000},
		{31, 1609},
		{50, 1609},
		{51, 3218},
		{70, 3218},
		{71, 8046},
		{90, 8046},
		{90.01, 0},
		{100, 0},
		{150, 0},
		{-5, 500},
	}

	for _, tt := range tests {
		got := Radius(tt.pref)
		if tt.want == 0 {
			if got != nil {
				t.Errorf("Radius(%v) = %d, want nil", tt.pref, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("Radius(%v) = nil, want %d", tt.pref, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("Radius(%v) = %d, want %d", tt.pref, *got, tt.want)
		}
	}
}

func TestRadius_ReturnsIndependentValues(t *testing.T) {
	t.Parallel()

	a := Radius(5)
	*a = 42
	if b := Radius(5); *b != 500 {
		t.Errorf("Radius(5) = %d after mutating a previous result, want 500", *b)
	}
}

func TestRadius_TotalOverDomain(t *testing.T) {
	t.Parallel()

	for d := 0.0; d <= 100; d += 0.5 {
		r := Radius(d)
		switch {
		case d <= 10:
			if r == nil || *r != 500 {
				t.Fatalf("Radius(%v) = %v, want 500", d, r)
			}
		case d > 90:
			if r != nil {
				t.Fatalf("Radius(%v) = %d, want nil", d, *r)
			}
		default:
			if r == nil {
				t.Fatalf("Radius(%v) = nil, want a radius", d)
			}
		}
	}

	if r := Radius(math.NaN()); r != nil {
		t.Errorf("Radius(NaN) = %d, want nil", *r)
	}
}

func TestPriceLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		budget float64
		want   PriceSet
	}{
		{0, PriceSet{0, 1}},
		{10, PriceSet{0, 1}},
		{25, PriceSet{0, 1}},
		{26, PriceSet{2}},
		{50, PriceSet{2}},
		{51, PriceSet{3}},
		{75, PriceSet{3}},
		{76, PriceSet{4}},
		{100, PriceSet{4}},
		{250, PriceSet{4}},
	}

	for _, tt := range tests {
		if got := PriceLevels(tt.budget); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PriceLevels(%v) = %v, want %v", tt.budget, got, tt.want)
		}
	}
}

func TestPriceSetContains(t *testing.T) {
	t.Parallel()

	set := PriceSet{0, 1}
	for level, want := range map[int]bool{0: true, 1: true, 2: false, 4: false} {
		if got := set.Contains(level); got != want {
			t.Errorf("Contains(%d) = %v, want %v", level, got, want)
		}
	}
}
