// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

/*
Package supervisor runs Mealpick's long-lived services under suture v4.

# Overview

Services are grouped into three child supervisors so that restarts in one
layer do not disturb the others:

	RootSupervisor ("mealpick")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService (badger backend with BADGER_GC_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── HistoryWorkerService
	│   └── HistoryFailureService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Store connections and the history transport are opened in main before the
tree starts and closed after it stops. They are resources, not services.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewHistoryWorkerService(worker))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Failure Handling

Each layer keeps its own failure counter. When failures exceed
FailureThreshold (decaying over FailureDecay seconds) the layer waits
FailureBackoff before restarting the service again. Returning nil from
Serve also triggers a restart; return ctx.Err() on shutdown.

# Debugging Shutdown

	report, _ := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("Service did not stop")
	}
*/
package supervisor
