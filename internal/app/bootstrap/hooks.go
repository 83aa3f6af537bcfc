// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires this app into the WAFFLE lifecycle.
// Each function is called in order by app.Run, from configuration
// loading through DB setup, one-time startup work, HTTP handler
// construction, and finally graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "lawsite",      // used only for logging/diagnostics
	LoadConfig:     LoadConfig,     // load core + app config
	ValidateConfig: ValidateConfig, // MongoDB URI, content feed, storage, seed admin
	ConnectDB:      ConnectDB,      // MongoDB, Redis, content feed, storage, mailer
	EnsureSchema:   EnsureSchema,   // validators, indexes, default content and pages
	Startup:        Startup,        // start content sync, seed admin, start jobs
	BuildHandler:   BuildHandler,   // build the HTTP router + middleware stack
	Shutdown:       Shutdown,       // stop jobs and sync, close backends
}
