// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs the long-lived parts of cinematch under a suture v4
tree.

	RootSupervisor ("cinematch")
	├── ModelSupervisor ("model-layer")
	│   ├── ModelWarmupService (when model.preload is set)
	│   └── CachePruneService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The layers restart independently. The warmup runs once and retires even when
it fails; requests then attempt the load themselves.

Supervisor events are logged through sutureslog, bridged onto zerolog by
logging.NewSlogLogger.

Services follow suture's return contract: an error means restart,
suture.ErrDoNotRestart means the service is done, ctx.Err() means shutdown.
*/
package supervisor
