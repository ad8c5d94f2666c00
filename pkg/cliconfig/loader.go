package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".pokedexrc.yaml", ".pokedexrc.yml"}

// FindLocalConfig searches for .pokedexrc.yaml or .pokedexrc.yml in the current directory.
// Returns empty string if not found.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigIn(cwd), nil
}

func findConfigIn(dir string) string {
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a Config from a YAML file. Keys present in the file
// are recorded in SetFields.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, newConfigError(path, err)
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, newConfigError(path, err)
	}

	cfg.Sources = make(map[string]string)
	cfg.SetFields = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.SetFields[k] = true
	}
	cfg.ConfigFile = path
	return &cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

func newConfigError(path string, err error) *ConfigError {
	cerr := &ConfigError{Path: path, Message: err.Error()}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		cerr.Message = typeErr.Errors[0]
	}
	// yaml.v3 syntax errors read "yaml: line N: ..."
	var line int
	if _, scanErr := fmt.Sscanf(cerr.Message, "yaml: line %d:", &line); scanErr == nil {
		cerr.Line = line
		cerr.Column = 1
	} else if _, scanErr := fmt.Sscanf(cerr.Message, "line %d:", &line); scanErr == nil {
		cerr.Line = line
		cerr.Column = 1
	}
	return cerr
}

// LoadAll loads configuration from all sources and merges them.
// Precedence: env > config file > defaults. Flags are merged by the caller.
//
// explicitPath, when non-empty, must exist. Otherwise POKEDEX_CONFIG is
// consulted, then .pokedexrc.yaml in the working directory; a missing local
// file is not an error.
func LoadAll(explicitPath string) (*Config, error) {
	cfg := NewDefault()

	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	required := path != ""
	if path == "" {
		local, err := FindLocalConfig()
		if err != nil {
			return nil, fmt.Errorf("find local config: %w", err)
		}
		path = local
	}

	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		switch {
		case err == nil:
			MergeConfig(cfg, fileCfg, SourceFile)
		case required || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := LoadEnvConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
