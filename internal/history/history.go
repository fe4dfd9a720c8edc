// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package history moves suggestion history off the request path.
//
// The request handler calls Writer.Enqueue, which publishes one message per
// batch to a watermill topic and returns. A Worker subscribed to the topic
// persists each batch to the store. Persistence failures are logged,
// counted and reported on the worker's failure channel; they never reach
// the caller and are not retried.
//
// Two transports are available: an in-process gochannel (default) and NATS
// JetStream, optionally backed by an embedded nats-server.
package history

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mealpick/internal/models"
)

// Transport names accepted by configuration.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

// Metadata keys set on every batch message.
const (
	MetadataUserID = "user_id"
	MetadataCount  = "records"
)

// ErrEmptyUserID is returned for batches without an owner.
var ErrEmptyUserID = errors.New("history: user id is required")

// Batch is the payload of one queue message.
type Batch struct {
	UserID  string                 `json:"user_id"`
	Records []models.HistoryRecord `json:"records"`
}

// Transport pairs the publishing and subscribing halves of a queue.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	closers []func() error
}

// OnClose registers fn to run after both halves are closed.
func (t *Transport) OnClose(fn func() error) {
	t.closers = append(t.closers, fn)
}

// Close closes both halves and any resources the transport owns.
func (t *Transport) Close() error {
	var errs []error
	if err := t.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// gochannel uses one value for both halves.
	if any(t.Subscriber) != any(t.Publisher) {
		if err := t.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	for _, c := range t.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func encodeBatch(b Batch) ([]byte, error) {
	return json.Marshal(b)
}

func decodeBatch(payload []byte) (Batch, error) {
	var b Batch
	if err := json.Unmarshal(payload, &b); err != nil {
		return b, fmt.Errorf("decode history batch: %w", err)
	}
	if b.UserID == "" {
		return b, ErrEmptyUserID
	}
	return b, nil
}
