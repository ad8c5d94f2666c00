package cliconfig

// DefaultPort is the default HTTP listen port.
const DefaultPort = 3000

// DefaultReadTimeout is the default read timeout in seconds.
const DefaultReadTimeout = 30

// DefaultWriteTimeout is the default write timeout in seconds.
const DefaultWriteTimeout = 30

// DefaultMaxBodySize is the default request body limit in bytes (1MB).
const DefaultMaxBodySize int64 = 1 << 20

// DefaultSeedFile is the seed document loaded at startup.
const DefaultSeedFile = "pokedex.json"

// DefaultStaticDir holds the browser client assets.
const DefaultStaticDir = "client"

// DefaultLogLevel is the default minimum log level.
const DefaultLogLevel = "info"

// DefaultLogFormat is the default log output format.
const DefaultLogFormat = "text"

// NewDefault creates a new Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		Port:         DefaultPort,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		MaxBodySize:  DefaultMaxBodySize,
		SeedFile:     DefaultSeedFile,
		StaticDir:    DefaultStaticDir,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Metrics:      true,
		Sources:      make(map[string]string),
	}
	for _, key := range []string{
		"port", "readTimeout", "writeTimeout", "maxBodySize", "seedFile",
		"staticDir", "logLevel", "logFormat", "metrics",
	} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
