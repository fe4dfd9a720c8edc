// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package services

import (
	"context"
	"fmt"
)

// HistoryWorker is implemented by *history.Worker.
type HistoryWorker interface {
	Run(ctx context.Context) error
	LogFailures(ctx context.Context) error
}

// HistoryWorkerService consumes the history topic. A subscription that
// closes or fails to open makes Serve return an error so suture
// resubscribes with backoff.
type HistoryWorkerService struct {
	worker HistoryWorker
}

// NewHistoryWorkerService wraps worker.
func NewHistoryWorkerService(worker HistoryWorker) *HistoryWorkerService {
	return &HistoryWorkerService{worker: worker}
}

// Serve implements suture.Service.
func (s *HistoryWorkerService) Serve(ctx context.Context) error {
	err := s.worker.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("history worker: %w", err)
	}
	return fmt.Errorf("history worker: subscription closed")
}

// String implements fmt.Stringer.
func (s *HistoryWorkerService) String() string {
	return "history-worker"
}

// HistoryFailureService logs batches the worker could not persist.
type HistoryFailureService struct {
	worker HistoryWorker
}

// NewHistoryFailureService wraps worker's failure channel.
func NewHistoryFailureService(worker HistoryWorker) *HistoryFailureService {
	return &HistoryFailureService{worker: worker}
}

// Serve implements suture.Service.
func (s *HistoryFailureService) Serve(ctx context.Context) error {
	return s.worker.LogFailures(ctx)
}

// String implements fmt.Stringer.
func (s *HistoryFailureService) String() string {
	return "history-failures"
}
