package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		problems = append(problems, "paths.log_dir must not be empty")
	}
	if !strings.HasPrefix(c.Catalog.BGGBaseURL, "http://") && !strings.HasPrefix(c.Catalog.BGGBaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("catalog.bgg_base_url %q must be an http(s) URL", c.Catalog.BGGBaseURL))
	}
	if c.Resolver.ResultLimit > c.Resolver.SuggestionLimit {
		problems = append(problems, "resolver.result_limit must not exceed resolver.suggestion_limit")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
