// Package monitoring provides Prometheus metrics for the store.
//
// Metrics cover the document lifecycle (loads, creates, persists, failures,
// online gauge), recovered hook panics, the registry size, and the HTTP
// surface. Collection is optional: components accept a nil *Metrics and skip
// recording.
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
//	router.Use(monitoring.Middleware(metrics))
package monitoring
