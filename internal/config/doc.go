// Package config loads and merges application configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// Sources are merged in priority order (environment first, then flags, then
// the JSON file); the merged result is validated before use. All
// configuration is read once at startup and treated as immutable afterwards.
package config
