// Package main is the entry point for the player-data store server.
//
// It loads configuration from the environment (optionally overlaid with a
// TOML file), builds the server, and runs it until SIGINT or SIGTERM, at
// which point every online document is persisted before exit.
package main
