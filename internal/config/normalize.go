package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeResolver()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.BGGBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BGGBaseURL), "/")
	if c.Catalog.BGGBaseURL == "" {
		c.Catalog.BGGBaseURL = defaultBGGBaseURL
	}
	if c.Catalog.RequestTimeout <= 0 {
		c.Catalog.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeResolver() {
	if c.Resolver.QueryTimeout <= 0 {
		c.Resolver.QueryTimeout = defaultQueryTimeout
	}
	if c.Resolver.InitialDelayMs < 0 {
		c.Resolver.InitialDelayMs = defaultInitialDelayMs
	}
	if c.Resolver.StaggerStepMs < 0 {
		c.Resolver.StaggerStepMs = defaultStaggerStepMs
	}
	if c.Resolver.InterJobPauseMs < 0 {
		c.Resolver.InterJobPauseMs = defaultInterJobPauseMs
	}
	if c.Resolver.ResultLimit <= 0 {
		c.Resolver.ResultLimit = defaultResultLimit
	}
	if c.Resolver.SuggestionLimit <= 0 {
		c.Resolver.SuggestionLimit = defaultSuggestionLimit
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = 10
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
