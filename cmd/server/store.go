// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/store"
	"github.com/tomtom215/mealpick/internal/store/badgerstore"
	"github.com/tomtom215/mealpick/internal/store/firestorestore"
	"github.com/tomtom215/mealpick/internal/store/mongostore"
)

// openStore connects the configured backend.
func openStore(ctx context.Context, cfg *config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case store.BackendMongo:
		s, err := mongostore.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return s, nil
	case store.BackendFirestore:
		s, err := firestorestore.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open firestore store: %w", err)
		}
		return s, nil
	case store.BackendBadger:
		s, err := badgerstore.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		logging.Info().
			Str("path", cfg.Badger.Path).
			Bool("in_memory", cfg.Badger.InMemory).
			Msg("Badger store opened")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
