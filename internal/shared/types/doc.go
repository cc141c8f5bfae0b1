// Package types provides shared data structures for the player-data store.
//
// Core Types:
//   - Value: Tagged field default (bool | int | float | string | string list | structured | null)
//   - FieldDefinition: Named, defaultable document field
//   - Identity: Resolved entity reference (UUID key + display name)
//
// Values carry an explicit kind tag instead of relying on runtime type
// inspection, so schema files round-trip without loss and defaults keep
// their declared type across restarts.
//
// Example Usage:
//
//	coins := types.NewField("coins", types.IntValue(0))
//	tags := types.NewField("tags", types.StringListValue(nil))
package types
