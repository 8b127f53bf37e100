// Package config loads, normalizes, and validates the TOML configuration for
// karagen: pipeline directories, the origin repository name, media tooling
// binaries, and log output settings.
package config
