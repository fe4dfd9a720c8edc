// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package main is the entry point for the Mealpick server.
//
// Mealpick answers "where should I eat?" for an authenticated caller: it
// validates their preference sliders, searches nearby restaurants through
// the places API, ranks the candidates and records the result.
//
// # Startup Order
//
//  1. Configuration (Koanf v2: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. Document store (MongoDB, Firestore or BadgerDB)
//  4. Places client, wrapped in a circuit breaker when enabled
//  5. History transport (in-process channel or NATS JetStream)
//  6. Authentication (HS256 JWT or OIDC)
//  7. Supervisor tree: store GC, history worker, HTTP server
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for
// SHUTDOWN_TIMEOUT, the history worker stops, then the transport and store
// are closed in that order.
//
// # Example
//
//	export GOOGLE_PLACES_API_KEY=...
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export STORE_BACKEND=badger BADGER_PATH=/data/mealpick
//	./mealpick
//
// Port 8080 by default; see internal/config for every variable.
package main
