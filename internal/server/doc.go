// Package server provides HTTP server setup and initialization for the
// player-data store.
//
// This package orchestrates all components:
//   - Schema registry loading and YAML field seeding
//   - Lifecycle manager with scheduler and session directory
//   - HTTP routing with Gin (fields, players, health, metrics)
//   - Middleware stack (CORS, rate limiting, recovery, metrics)
//
// Shutdown drains every online identity to disk and persists the field
// registry before the process may exit.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.New(cfg, logger)
//	if err := srv.Run(cfg.Server.Host, cfg.Server.Port); err != nil {
//	    log.Fatal(err)
//	}
package server
