// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

/*
Package supervisor provides process supervision for thrive serve using suture v4.

# Tree

	RootSupervisor ("thrive")
	├── DataSupervisor ("data-layer")
	│   └── StoreService
	└── ServicesSupervisor ("services-layer")
	    ├── RetrainService
	    └── HTTPServerService (if server.enabled)

Crashed services restart with suture's backoff. Each layer counts failures
independently, so a store that keeps failing its pings backs off the data
layer without taking the ops endpoints down.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewStoreService(store, services.StoreServiceConfig{}, logger))
	tree.AddService(services.NewRetrainService(engine, store, retrainCfg, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

# Logging

Suture events (service failures, backoff, panics) go through sutureslog to
an *slog.Logger backed by zerolog; see logging.NewSlogLogger.
*/
package supervisor
