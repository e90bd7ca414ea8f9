// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

/*
Package supervisor runs ERDGen's long-lived components under a suture/v4
supervisor tree.

The tree has two layers:

	erdgen (root)
	├── maintenance-layer
	│   └── janitor (expired sessions, stale describe cache entries)
	└── api-layer
	    └── http-server

A panic or error in one service restarts that service only. Failures decay
over FailureDecay seconds; after FailureThreshold failures the supervisor
backs off for FailureBackoff before restarting again.

Supervisor events are logged through sutureslog, bridged onto the zerolog
logger by logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(services.NewJanitorService(store, client, interval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
