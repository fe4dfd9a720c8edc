// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// fakeWorker returns runErr from Run (or blocks until cancel when nil and
// block is set).
type fakeWorker struct {
	runErr   error
	block    bool
	runs     atomic.Int32
	logCalls atomic.Int32
}

func (f *fakeWorker) Run(ctx context.Context) error {
	f.runs.Add(1)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.runErr
}

func (f *fakeWorker) LogFailures(ctx context.Context) error {
	f.logCalls.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestHistoryWorkerService_Serve(t *testing.T) {
	t.Parallel()

	subscribeErr := errors.New("nats: no responders")

	tests := []struct {
		name    string
		worker  *fakeWorker
		cancel  bool
		wantErr string
		wantIs  error
	}{
		{name: "subscribe failure", worker: &fakeWorker{runErr: subscribeErr}, wantIs: subscribeErr},
		{name: "subscription closed", worker: &fakeWorker{}, wantErr: "subscription closed"},
		{name: "shutdown", worker: &fakeWorker{block: true}, cancel: true, wantIs: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				go func() {
					time.Sleep(20 * time.Millisecond)
					cancel()
				}()
			}

			err := NewHistoryWorkerService(tt.worker).Serve(ctx)
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Serve() error = %v, want %v", err, tt.wantIs)
			}
			if tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)) {
				t.Errorf("Serve() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestHistoryServices_RestartedBySupervisor(t *testing.T) {
	t.Parallel()

	worker := &fakeWorker{runErr: errors.New("subscribe failed")}
	sup := suture.New("test", suture.Spec{
		FailureThreshold: 100,
		FailureBackoff:   time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewHistoryWorkerService(worker))
	sup.Add(NewHistoryFailureService(worker))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)

	if got := worker.runs.Load(); got < 2 {
		t.Errorf("Run calls = %d, want restarts", got)
	}
	if got := worker.logCalls.Load(); got != 1 {
		t.Errorf("LogFailures calls = %d, want 1", got)
	}
}

func TestHistoryServices_String(t *testing.T) {
	t.Parallel()

	w := &fakeWorker{}
	if got := NewHistoryWorkerService(w).String(); got != "history-worker" {
		t.Errorf("worker String() = %q", got)
	}
	if got := NewHistoryFailureService(w).String(); got != "history-failures" {
		t.Errorf("failure String() = %q", got)
	}
}
