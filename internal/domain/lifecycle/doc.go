// Package lifecycle orchestrates per-identity document load, reconciliation,
// hook dispatch, the online cache, and persistence at unload.
//
// Per identity the manager walks Unloaded -> Loading -> Online(cached) ->
// Unloading -> Unloaded. Exactly one cached document exists per online
// identity; offline documents may be obtained transiently through Get and
// must be handed back through Release.
//
// Hook registries (load, join, quit, unload) are append-only and dispatched
// in registration order; a panicking hook is recovered and logged without
// aborting its siblings or the surrounding transition.
//
// Collaborators are injected interfaces: the identity directory, the
// operator authority, and the task scheduler. The manager never manages
// timing itself; it only records task ids for cancellation at quit.
package lifecycle
