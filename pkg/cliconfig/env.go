package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvConfig      = "POKEDEX_CONFIG"
	EnvPort        = "PORT"
	EnvNodePort    = "NODE_PORT"
	EnvPokedexPort = "POKEDEX_PORT"
	EnvSeed        = "POKEDEX_SEED"
	EnvStaticDir   = "POKEDEX_STATIC_DIR"
	EnvLogLevel    = "POKEDEX_LOG_LEVEL"
	EnvLogFormat   = "POKEDEX_LOG_FORMAT"
	EnvMaxBodySize = "POKEDEX_MAX_BODY_SIZE"
	EnvMetrics     = "POKEDEX_METRICS"
)

// portVars are consulted lowest priority first, so PORT wins over NODE_PORT
// and NODE_PORT wins over POKEDEX_PORT.
var portVars = []string{EnvPokedexPort, EnvNodePort, EnvPort}

// LoadEnvConfig applies environment variables to cfg. Empty variables are
// ignored. A variable that does not parse is an error.
func LoadEnvConfig(cfg *Config) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	for _, name := range portVars {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			continue
		}
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		cfg.Port = port
		cfg.Sources["port"] = SourceEnv
	}

	if v := os.Getenv(EnvSeed); v != "" {
		cfg.SeedFile = v
		cfg.Sources["seedFile"] = SourceEnv
	}
	if v := os.Getenv(EnvStaticDir); v != "" {
		cfg.StaticDir = v
		cfg.Sources["staticDir"] = SourceEnv
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxBodySize)); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxBodySize, v, err)
		}
		cfg.MaxBodySize = size
		cfg.Sources["maxBodySize"] = SourceEnv
	}
	if v := strings.TrimSpace(os.Getenv(EnvMetrics)); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMetrics, v, err)
		}
		cfg.Metrics = enabled
		cfg.Sources["metrics"] = SourceEnv
	}
	return nil
}
