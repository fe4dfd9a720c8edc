// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package testinfra provides container helpers for integration tests.
//
// It uses testcontainers-go to start real dependencies. Everything here is
// behind the integration build tag:
//
//	go test -tags integration ./internal/store/mongostore/...
//
// # MongoDB
//
//	func TestMongoStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//	    // connect to mongo.URI
//	}
//
// Tests are skipped when Docker is unavailable. The first run pulls images.
package testinfra
