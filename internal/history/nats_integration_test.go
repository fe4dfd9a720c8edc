// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

//go:build integration

package history

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/models"
)

func TestNATSTransport_EmbeddedRoundTrip(t *testing.T) {
	cfg := config.NATSConfig{
		Embedded:    true,
		Host:        "127.0.0.1",
		Port:        -1,
		StoreDir:    t.TempDir(),
		DurableName: "history-test",
		QueueGroup:  "history-test",
	}

	srv, err := StartEmbeddedServer(cfg)
	if err != nil {
		t.Fatalf("StartEmbeddedServer() error = %v", err)
	}

	transport, err := NewNATSTransport(srv.ClientURL(), cfg, watermill.NopLogger{})
	if err != nil {
		_ = srv.Shutdown()
		t.Fatalf("NewNATSTransport() error = %v", err)
	}
	transport.OnClose(srv.Shutdown)

	sink := newFakeSink()
	worker := NewWorker(transport.Subscriber, sink, WorkerConfig{Topic: "history-roundtrip", WriteTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		if err := transport.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	select {
	case <-worker.Ready():
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not subscribe in time")
	}

	writer := NewWriter(transport.Publisher, "history-roundtrip")
	if err := writer.Enqueue(context.Background(), "user-1", []models.HistoryRecord{record("a")}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	got := waitPersisted(t, sink)
	if got.userID != "user-1" || len(got.records) != 1 {
		t.Errorf("persisted = %+v", got)
	}
}
