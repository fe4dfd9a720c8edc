// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount returns how many observations h has recorded.
func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/suggestions", "200"))
	RecordAPIRequest("POST", "/api/v1/suggestions", "200", 20*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/suggestions", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordSuggest(t *testing.T) {
	tests := []struct {
		outcome string
	}{
		{"ok"},
		{"invalid-argument"},
		{"internal"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			before := testutil.ToFloat64(SuggestRequests.WithLabelValues(tt.outcome))
			RecordSuggest(tt.outcome, 100*time.Millisecond, 3)
			after := testutil.ToFloat64(SuggestRequests.WithLabelValues(tt.outcome))
			if after-before != 1 {
				t.Errorf("suggest_requests_total{outcome=%q} delta = %v, want 1", tt.outcome, after-before)
			}
		})
	}
}

func TestRecordCacheWrite(t *testing.T) {
	okBefore := testutil.ToFloat64(CacheWrites.WithLabelValues("success"))
	failBefore := testutil.ToFloat64(CacheWrites.WithLabelValues("failure"))

	RecordCacheWrite(nil)
	RecordCacheWrite(errors.New("write conflict"))

	if d := testutil.ToFloat64(CacheWrites.WithLabelValues("success")) - okBefore; d != 1 {
		t.Errorf("success delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(CacheWrites.WithLabelValues("failure")) - failBefore; d != 1 {
		t.Errorf("failure delta = %v, want 1", d)
	}
}

func TestRecordHistoryBatch_CountsPersistedRecords(t *testing.T) {
	before := testutil.ToFloat64(HistoryRecords)

	RecordHistoryBatch("enqueue", 5, nil)
	RecordHistoryBatch("persist", 5, nil)
	RecordHistoryBatch("persist", 4, errors.New("store down"))

	if d := testutil.ToFloat64(HistoryRecords) - before; d != 5 {
		t.Errorf("history records delta = %v, want 5", d)
	}
}

func TestRecordPlacesRequest(t *testing.T) {
	errBefore := testutil.ToFloat64(PlacesRequests.WithLabelValues("radius", "error"))
	RecordPlacesRequest("radius", time.Second, 0, errors.New("timeout"))
	if d := testutil.ToFloat64(PlacesRequests.WithLabelValues("radius", "error")) - errBefore; d != 1 {
		t.Errorf("error delta = %v, want 1", d)
	}
}

func TestRecordSuggest_ReturnedObservedOnlyOnSuccess(t *testing.T) {
	durationBefore := histogramCount(t, SuggestDuration)
	returnedBefore := histogramCount(t, SuggestionsReturned)

	RecordSuggest("ok", 50*time.Millisecond, 5)
	RecordSuggest("failed-precondition", time.Millisecond, 0)

	if d := histogramCount(t, SuggestDuration) - durationBefore; d != 2 {
		t.Errorf("duration observations = %d, want 2", d)
	}
	if d := histogramCount(t, SuggestionsReturned) - returnedBefore; d != 1 {
		t.Errorf("returned observations = %d, want 1", d)
	}
}

func TestRecordPlacesRequest_ResultsObservedOnSuccess(t *testing.T) {
	before := histogramCount(t, PlacesResults)

	RecordPlacesRequest("rank-by-distance", 200*time.Millisecond, 20, nil)
	RecordPlacesRequest("rank-by-distance", time.Second, 0, errors.New("REQUEST_DENIED"))

	if d := histogramCount(t, PlacesResults) - before; d != 1 {
		t.Errorf("results observations = %d, want 1", d)
	}
}
