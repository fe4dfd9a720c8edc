// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package services

import (
	"context"
	"time"

	"github.com/tomtom215/mealpick/internal/logging"
)

// GarbageCollector is implemented by *badgerstore.Store.
type GarbageCollector interface {
	RunGC(ratio float64) error
}

// StoreGCService runs value log garbage collection every interval.
// A failed run is logged and retried on the next tick.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
	ratio    float64
}

// NewStoreGCService creates the service. interval must be positive.
func NewStoreGCService(gc GarbageCollector, interval time.Duration, ratio float64) *StoreGCService {
	return &StoreGCService{gc: gc, interval: interval, ratio: ratio}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(s.ratio); err != nil {
				logging.Warn().Err(err).Msg("Store garbage collection failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Store garbage collection finished")
		}
	}
}

// String implements fmt.Stringer.
func (s *StoreGCService) String() string {
	return "store-gc"
}
