// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

/*
Package supervisor runs the long-lived StreamAI services under suture v4.

	RootSupervisor ("streamai")
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogReloaderService (json backend only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing service is restarted with backoff by its own layer supervisor.
Suture events are logged through sutureslog and the zerolog slog adapter.

Usage:

	tree, err := supervisor.NewSupervisorTree(nil, supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddCatalogService(services.NewCatalogReloaderService(store, time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
