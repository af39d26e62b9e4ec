// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package supervisor runs the long-lived parts of the server under a suture v4
tree:

	RootSupervisor ("shelfwise")
	├── DataSupervisor ("data-layer")
	│   └── EventRouterService (if events.enabled)
	├── JobsSupervisor ("jobs-layer")
	│   └── RecommendService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with backoff. Supervisor events are logged through
sutureslog on the process zerolog logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewEventRouterService(bus, logger))
	tree.AddJobService(services.NewRecommendService(engine, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	err = tree.Serve(ctx)

After Serve returns, UnstoppedServiceReport lists services that ignored
cancellation.
*/
package supervisor
