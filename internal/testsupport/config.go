// Package testsupport provides shared fixtures for tests: temp-dir
// configs and seeded catalog stores.
package testsupport

import (
	"path/filepath"
	"testing"

	"gamekeep/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test and fast resolver timings.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Resolver.InitialDelayMs = 0
	cfg.Resolver.StaggerStepMs = 0
	cfg.Resolver.InterJobPauseMs = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithNtfyTopic sets the notification endpoint on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithResultLimit overrides the ranker result limit.
func WithResultLimit(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Resolver.ResultLimit = limit
	}
}
