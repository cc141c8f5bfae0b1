// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every component of the store receives its logger by injection; nothing logs
// through package-level globals.
//
// Example Usage:
//
//	logger := logging.NewDefault().Named("lifecycle")
//	logger.Info("Player joined", zap.String("player", name))
//	logger.Error("Failed to persist", zap.Error(err))
package logging
