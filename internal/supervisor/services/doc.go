// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

/*
Package services adapts Mealpick components to suture.Service.

	HTTPServerService      *http.Server, ListenAndServe then Shutdown on cancel
	HistoryWorkerService   history.Worker.Run
	HistoryFailureService  history.Worker.LogFailures
	StoreGCService         periodic badger value log GC

Every wrapper implements fmt.Stringer so suture logs a stable name.
*/
package services
