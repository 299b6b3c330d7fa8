// Package config defines the immutable configuration for a startup check.
//
// Configuration is assembled in three layers, later layers winning:
//
//  1. Built-in defaults (Defaults)
//  2. An optional TOML config file (LoadFile / File.Apply)
//  3. Command-line flags
//
// Validate runs before any remote interaction; a validation error maps to
// exit code 2 and guarantees the remote host is never contacted with a
// broken configuration.
package config
