// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package main

import (
	"fmt"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/history"
	"github.com/tomtom215/mealpick/internal/logging"
)

// openHistoryTransport builds the queue between the request path and the
// history worker. With NATS_EMBEDDED the server is started here and shut
// down when the transport closes.
func openHistoryTransport(cfg *config.HistoryConfig) (*history.Transport, error) {
	wmLogger := logging.NewWatermillLogger()

	switch cfg.Transport {
	case history.TransportMemory:
		logging.Info().Int64("buffer_size", cfg.BufferSize).Msg("History transport: in-process channel")
		return history.NewMemoryTransport(cfg.BufferSize, wmLogger), nil

	case history.TransportNATS:
		url := cfg.NATS.URL
		var embedded *history.EmbeddedServer
		if cfg.NATS.Embedded {
			srv, err := history.StartEmbeddedServer(cfg.NATS)
			if err != nil {
				return nil, fmt.Errorf("start embedded nats: %w", err)
			}
			embedded = srv
			url = srv.ClientURL()
			logging.Info().Str("url", url).Str("store_dir", cfg.NATS.StoreDir).Msg("Embedded NATS server started")
		}

		transport, err := history.NewNATSTransport(url, cfg.NATS, wmLogger)
		if err != nil {
			if embedded != nil {
				_ = embedded.Shutdown()
			}
			return nil, fmt.Errorf("open nats history transport: %w", err)
		}
		if embedded != nil {
			transport.OnClose(embedded.Shutdown)
		}
		logging.Info().Str("url", url).Str("topic", cfg.Topic).Msg("History transport: NATS JetStream")
		return transport, nil

	default:
		return nil, fmt.Errorf("unknown history transport %q", cfg.Transport)
	}
}
