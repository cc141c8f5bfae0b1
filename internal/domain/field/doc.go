// Package field manages the ordered set of named, defaultable fields that
// every identity document carries.
//
// Components:
//   - Registry: add/remove/contains/list over the schema file
//   - Seeder: loads extra definitions from YAML drop-in files on startup
//
// The registry is created seeded with the four built-ins (uuid, username,
// playing_time, permissions) and persists itself to the schema file after
// every mutation. The names uuid, username and playing_time are permanent:
// removal requests for them are silent no-ops.
//
// Removing a field never rewrites stored documents; each document sheds the
// field the next time it is loaded and reconciled.
package field
