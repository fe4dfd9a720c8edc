// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mealpick/internal/config"
)

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
	}
}

func TestBreakerClient_OpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	b := NewBreakerClient(NewClient(testConfig(srv.URL)), testBreakerConfig())

	for i := 0; i < 2; i++ {
		if _, err := b.NearbySearch(context.Background(), 1, 2, nil); err == nil {
			t.Fatalf("call %d: error = nil", i)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", b.State())
	}

	_, err := b.NearbySearch(context.Background(), 1, 2, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if calls.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2", calls.Load())
	}
}

func TestBreakerClient_PassesThroughResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	b := NewBreakerClient(NewClient(testConfig(srv.URL)), testBreakerConfig())
	if !b.HasCredential() {
		t.Error("HasCredential() = false")
	}

	candidates, err := b.NearbySearch(context.Background(), 1, 2, intPtr(800))
	if err != nil {
		t.Fatalf("NearbySearch() error = %v", err)
	}
	if len(candidates) != 2 || b.State() != gobreaker.StateClosed {
		t.Errorf("got %d candidates in state %v", len(candidates), b.State())
	}
}

func TestBreakerClient_CancellationDoesNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	b := NewBreakerClient(NewClient(testConfig(srv.URL)), testBreakerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, _ = b.NearbySearch(ctx, 1, 2, nil)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", b.State())
	}
}

func TestStateToString(t *testing.T) {
	t.Parallel()

	tests := map[gobreaker.State]string{
		gobreaker.StateClosed:   "closed",
		gobreaker.StateHalfOpen: "half-open",
		gobreaker.StateOpen:     "open",
	}
	for state, want := range tests {
		if got := stateToString(state); got != want {
			t.Errorf("stateToString(%v) = %q, want %q", state, got, want)
		}
	}
}
