// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeGC struct {
	err   error
	runs  atomic.Int32
	ratio atomic.Value
}

func (f *fakeGC) RunGC(ratio float64) error {
	f.runs.Add(1)
	f.ratio.Store(ratio)
	return f.err
}

func TestStoreGCService_RunsEveryInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "success", err: nil},
		{name: "failures keep ticking", err: errors.New("value log locked")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gc := &fakeGC{err: tt.err}
			svc := NewStoreGCService(gc, 10*time.Millisecond, 0.7)

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() error = %v, want deadline exceeded", err)
			}
			if got := gc.runs.Load(); got < 2 {
				t.Errorf("RunGC calls = %d, want at least 2", got)
			}
			if got, _ := gc.ratio.Load().(float64); got != 0.7 {
				t.Errorf("ratio = %v, want 0.7", got)
			}
		})
	}
}

func TestStoreGCService_String(t *testing.T) {
	t.Parallel()

	if got := NewStoreGCService(&fakeGC{}, time.Minute, 0.5).String(); got != "store-gc" {
		t.Errorf("String() = %q", got)
	}
}
