// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package supervisor runs the long-lived parts of Ledgerline under a suture v4
supervisor tree.

	RootSupervisor ("ledgerline")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Backups and restores are request-scoped and run inside HTTP handlers, so the
HTTP server is the only supervised service. DuckDB is an embedded library and
is opened and closed by main, not supervised.

Supervisor events (service start, panic, restart backoff) are logged through
sutureslog onto the zerolog output via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx) // blocks until ctx is canceled
*/
package supervisor
