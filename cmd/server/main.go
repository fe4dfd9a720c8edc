// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/mealpick/internal/api"
	"github.com/tomtom215/mealpick/internal/auth"
	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/history"
	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/places"
	"github.com/tomtom215/mealpick/internal/suggest"
	"github.com/tomtom215/mealpick/internal/supervisor"
	"github.com/tomtom215/mealpick/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Caller:      cfg.Logging.Caller,
		Timestamp:   true,
		Service:     "mealpick",
		Environment: cfg.Server.Environment,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Mealpick stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logging.Info().
		Str("store_backend", cfg.Store.Backend).
		Str("history_transport", cfg.History.Transport).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Mealpick")

	st, err := openStore(ctx, &cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	transport, err := openHistoryTransport(&cfg.History)
	if err != nil {
		return err
	}
	defer func() {
		if err := transport.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing history transport")
		}
	}()

	fetcher := newFetcher(&cfg.Places)
	if !fetcher.HasCredential() {
		logging.Warn().Msg("PLACES_API_KEY is not set; suggestion requests will fail until it is configured")
	}

	writer := history.NewWriter(transport.Publisher, cfg.History.Topic)
	worker := history.NewWorker(transport.Subscriber, st, history.WorkerConfig{
		Topic:        cfg.History.Topic,
		WriteTimeout: cfg.History.WriteTimeout,
	})

	authenticator, err := auth.NewAuthenticator(ctx, &cfg.Security)
	if err != nil {
		return err
	}
	logging.Info().Str("authenticator", authenticator.Name()).Msg("Authentication enabled")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	suggester := suggest.NewService(fetcher, st, writer)
	handler := api.NewHandler(suggester, st, map[string]api.ReadinessCheck{
		"store": st.Ping,
	})
	router := api.NewRouter(
		handler,
		auth.NewMiddleware(authenticator, api.RespondAuthError),
		api.NewChiMiddlewareFromConfig(&cfg.Security),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if gc, ok := st.(services.GarbageCollector); ok && cfg.Store.Badger.GCInterval > 0 {
		tree.AddDataService(services.NewStoreGCService(gc, cfg.Store.Badger.GCInterval, cfg.Store.Badger.GCRatio))
	}
	tree.AddMessagingService(services.NewHistoryWorkerService(worker))
	tree.AddMessagingService(services.NewHistoryFailureService(worker))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := tree.ServeBackground(ctx)
	var treeErr error
	select {
	case <-ctx.Done():
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

// newFetcher builds the places client, wrapped in a circuit breaker when
// enabled.
func newFetcher(cfg *config.PlacesConfig) suggest.Fetcher {
	client := places.NewClient(cfg)
	if !cfg.Breaker.Enabled {
		return client
	}
	return places.NewBreakerClient(client, cfg.Breaker)
}
