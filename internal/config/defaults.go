package config

const (
	defaultBackendURL           = "http://127.0.0.1:8000"
	defaultRequestTimeout       = 30
	defaultDataDir              = "~/.local/share/frameops"
	defaultLogDir               = "~/.local/share/frameops/logs"
	defaultHeartbeatInterval    = 30
	defaultReconnectBaseDelay   = 2000
	defaultReconnectMaxAttempts = 5
	defaultMutationDelay        = 500
	defaultTrainingDelay        = 1000
	defaultPageSize             = 50
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			URL:            defaultBackendURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Push: Push{
			HeartbeatInterval:    defaultHeartbeatInterval,
			ReconnectBaseDelay:   defaultReconnectBaseDelay,
			ReconnectMaxAttempts: defaultReconnectMaxAttempts,
		},
		Refresh: Refresh{
			MutationDelay: defaultMutationDelay,
			TrainingDelay: defaultTrainingDelay,
		},
		Console: Console{
			PageSize: defaultPageSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
