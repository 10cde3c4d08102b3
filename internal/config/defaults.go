package config

const (
	defaultAddr                  = "127.0.0.1:8787"
	defaultReadTimeoutSeconds    = 15
	defaultWriteTimeoutSeconds   = 60
	defaultRequestTimeoutSeconds = 60
	defaultShutdownSeconds       = 10
	defaultCutoffYear            = 2014
	defaultWorkers               = 3
	defaultMaxUploadBytes        = 32 << 20
	defaultFetchTimeoutSeconds   = 15
	defaultLogLevel              = "info"
	defaultLogFormat             = "text"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Addr:                  defaultAddr,
			ReadTimeoutSeconds:    defaultReadTimeoutSeconds,
			WriteTimeoutSeconds:   defaultWriteTimeoutSeconds,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			ShutdownSeconds:       defaultShutdownSeconds,
		},
		Gate: Gate{
			CutoffYear:     defaultCutoffYear,
			Workers:        defaultWorkers,
			MaxUploadBytes: defaultMaxUploadBytes,
			FetchTimeout:   defaultFetchTimeoutSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
