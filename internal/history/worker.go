// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/metrics"
	"github.com/tomtom215/mealpick/internal/models"
)

// Sink persists a batch of history records.
type Sink interface {
	AppendHistory(ctx context.Context, userID string, records []models.HistoryRecord) error
}

// Failure describes a batch that could not be persisted.
type Failure struct {
	MessageID string
	UserID    string
	Records   int
	Err       error
	At        time.Time
}

// WorkerConfig configures a Worker.
type WorkerConfig struct {
	Topic string

	// WriteTimeout bounds each AppendHistory call.
	WriteTimeout time.Duration

	// FailureBuffer is the capacity of the failure channel. Failures are
	// dropped (but still logged) when nobody drains it.
	FailureBuffer int
}

// Worker consumes history batches and writes them to a Sink.
type Worker struct {
	subscriber message.Subscriber
	sink       Sink
	cfg        WorkerConfig

	failures  chan Failure
	ready     chan struct{}
	readyOnce sync.Once
}

// NewWorker creates a worker. Call Run (directly or through a supervisor)
// to start consuming.
func NewWorker(subscriber message.Subscriber, sink Sink, cfg WorkerConfig) *Worker {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.FailureBuffer <= 0 {
		cfg.FailureBuffer = 64
	}
	return &Worker{
		subscriber: subscriber,
		sink:       sink,
		cfg:        cfg,
		failures:   make(chan Failure, cfg.FailureBuffer),
		ready:      make(chan struct{}),
	}
}

// Failures reports batches that failed to decode or persist.
func (w *Worker) Failures() <-chan Failure {
	return w.failures
}

// Ready is closed once the worker has subscribed to its topic.
func (w *Worker) Ready() <-chan struct{} {
	return w.ready
}

// Run subscribes and processes messages until ctx is cancelled or the
// subscription closes.
func (w *Worker) Run(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, w.cfg.Topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", w.cfg.Topic, err)
	}
	w.readyOnce.Do(func() { close(w.ready) })

	logging.Info().Str("topic", w.cfg.Topic).Msg("History worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.process(ctx, msg)
		}
	}
}

// process persists one message and always acks it: failed batches are
// reported, not redelivered.
func (w *Worker) process(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	log := logging.Ctx(ctx).With().
		Str("component", "history").
		Str("message_uuid", msg.UUID).
		Logger()

	batch, err := decodeBatch(msg.Payload)
	if err != nil {
		log.Error().Err(err).Msg("Dropping undecodable history batch")
		w.report(Failure{MessageID: msg.UUID, UserID: msg.Metadata.Get(MetadataUserID), Err: err, At: time.Now()})
		metrics.RecordHistoryBatch("persist", 0, err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, w.cfg.WriteTimeout)
	defer cancel()

	err = w.sink.AppendHistory(writeCtx, batch.UserID, batch.Records)
	metrics.RecordHistoryBatch("persist", len(batch.Records), err)
	if err != nil {
		log.Error().Err(err).
			Str("user_id", batch.UserID).
			Int("records", len(batch.Records)).
			Msg("History write failed")
		w.report(Failure{
			MessageID: msg.UUID,
			UserID:    batch.UserID,
			Records:   len(batch.Records),
			Err:       err,
			At:        time.Now(),
		})
		return
	}

	log.Debug().Str("user_id", batch.UserID).Int("records", len(batch.Records)).Msg("History batch persisted")
}

func (w *Worker) report(f Failure) {
	select {
	case w.failures <- f:
	default:
		logging.Warn().Str("message_uuid", f.MessageID).Msg("History failure channel full, dropping report")
	}
}

// LogFailures drains the failure channel until ctx is done, logging a
// summary line per failure.
func (w *Worker) LogFailures(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-w.failures:
			logging.Warn().
				Err(f.Err).
				Str("message_uuid", f.MessageID).
				Str("user_id", f.UserID).
				Int("records", f.Records).
				Time("failed_at", f.At).
				Msg("History batch lost")
		}
	}
}
