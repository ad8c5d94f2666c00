// Package cliconfig provides configuration types and loading for the pokedex CLI.
package cliconfig

// Config is the complete configuration for the pokedex server.
// Values can come from several sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Config file (--config, POKEDEX_CONFIG, or .pokedexrc.yaml in the working directory)
// 4. Default values (lowest priority)
type Config struct {
	// Server settings
	Port         int   `yaml:"port" json:"port" validate:"min=0,max=65535"`
	ReadTimeout  int   `yaml:"readTimeout" json:"readTimeout" validate:"min=0,max=3600"`
	WriteTimeout int   `yaml:"writeTimeout" json:"writeTimeout" validate:"min=0,max=3600"`
	MaxBodySize  int64 `yaml:"maxBodySize" json:"maxBodySize" validate:"gt=0"`

	// Data and assets
	SeedFile  string `yaml:"seedFile" json:"seedFile" validate:"required"`
	StaticDir string `yaml:"staticDir" json:"staticDir"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Metrics exposes /metrics when true.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// ConfigFile is the file the configuration was loaded from, if any.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which YAML keys were present in a loaded file, so
	// that an explicit false can be told apart from an absent boolean.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)
