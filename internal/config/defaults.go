package config

const (
	defaultDataDir         = "~/.local/share/gamekeep"
	defaultLogDir          = "~/.local/share/gamekeep/logs"
	defaultBGGBaseURL      = "https://boardgamegeek.com/xmlapi2"
	defaultRequestTimeout  = 10
	defaultQueryTimeout    = 8
	defaultInitialDelayMs  = 250
	defaultStaggerStepMs   = 150
	defaultInterJobPauseMs = 300
	defaultResultLimit     = 10
	defaultSuggestionLimit = 20
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			BGGBaseURL:     defaultBGGBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Resolver: Resolver{
			QueryTimeout:    defaultQueryTimeout,
			InitialDelayMs:  defaultInitialDelayMs,
			StaggerStepMs:   defaultStaggerStepMs,
			InterJobPauseMs: defaultInterJobPauseMs,
			ResultLimit:     defaultResultLimit,
			SuggestionLimit: defaultSuggestionLimit,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			Resolution:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
