// Package config loads and persists gyst configuration.
//
// The effective configuration is built by merging four layers in order:
// built-in defaults, the config file, environment variables, and CLI flag
// overrides. The generation pipeline treats the result as read-only; only
// the `gyst config` subcommand writes the file back.
package config
