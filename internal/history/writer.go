// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package history

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/tomtom215/mealpick/internal/metrics"
	"github.com/tomtom215/mealpick/internal/models"
)

// Writer publishes history batches. It is safe for concurrent use.
type Writer struct {
	publisher message.Publisher
	topic     string
}

// NewWriter creates a writer publishing to topic.
func NewWriter(publisher message.Publisher, topic string) *Writer {
	return &Writer{publisher: publisher, topic: topic}
}

// Enqueue publishes records as one batch for userID. It returns when the
// transport has accepted the message, before the batch is persisted.
func (w *Writer) Enqueue(ctx context.Context, userID string, records []models.HistoryRecord) error {
	err := w.enqueue(ctx, userID, records)
	metrics.RecordHistoryBatch("enqueue", len(records), err)
	return err
}

func (w *Writer) enqueue(ctx context.Context, userID string, records []models.HistoryRecord) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if len(records) == 0 {
		return nil
	}

	payload, err := encodeBatch(Batch{UserID: userID, Records: records})
	if err != nil {
		return fmt.Errorf("encode history batch: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set(MetadataUserID, userID)
	msg.Metadata.Set(MetadataCount, strconv.Itoa(len(records)))
	// The request context ends with the response; the batch must outlive it.
	msg.SetContext(context.WithoutCancel(ctx))

	if err := w.publisher.Publish(w.topic, msg); err != nil {
		return fmt.Errorf("publish history batch: %w", err)
	}
	return nil
}
