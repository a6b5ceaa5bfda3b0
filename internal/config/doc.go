// Package config loads, normalizes, and validates gamekeep's TOML
// configuration. Defaults are applied first, then overridden by the config
// file when one exists, then path fields are expanded to absolute paths.
package config
