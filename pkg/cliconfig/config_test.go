package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadEnvConfig reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvConfig, EnvPort, EnvNodePort, EnvPokedexPort, EnvSeed, EnvStaticDir,
		EnvLogLevel, EnvLogFormat, EnvMaxBodySize, EnvMetrics,
	} {
		t.Setenv(name, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(*Config) {}},
		{name: "ephemeral port", mutate: func(c *Config) { c.Port = 0 }},
		{name: "port too high", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port 70000 is out of range (0-65535)"},
		{name: "port negative", mutate: func(c *Config) { c.Port = -1 }, wantErr: "port -1 is out of range"},
		{name: "read timeout too high", mutate: func(c *Config) { c.ReadTimeout = 9999 }, wantErr: "readTimeout 9999 is out of range (0-3600)"},
		{name: "write timeout negative", mutate: func(c *Config) { c.WriteTimeout = -1 }, wantErr: "writeTimeout -1 is out of range"},
		{name: "zero body size", mutate: func(c *Config) { c.MaxBodySize = 0 }, wantErr: "maxBodySize 0 must be positive"},
		{name: "empty seed", mutate: func(c *Config) { c.SeedFile = "" }, wantErr: "seedFile must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "pokedex.json", cfg.SeedFile)
	assert.Equal(t, "client", cfg.StaticDir)
	assert.Equal(t, int64(1<<20), cfg.MaxBodySize)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, SourceDefault, cfg.Sources["port"])
}

func TestMergeConfig(t *testing.T) {
	t.Run("merges non-zero values", func(t *testing.T) {
		target := NewDefault()
		source := &Config{
			Port:      9000,
			SeedFile:  "other.json",
			SetFields: map[string]bool{"port": true, "seedFile": true},
		}

		MergeConfig(target, source, SourceFile)

		assert.Equal(t, 9000, target.Port)
		assert.Equal(t, "other.json", target.SeedFile)
		assert.Equal(t, SourceFile, target.Sources["port"])
		assert.Equal(t, SourceDefault, target.Sources["staticDir"])
	})

	t.Run("does not overwrite with zero values", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{}, SourceFile)
		assert.Equal(t, DefaultPort, target.Port)
		assert.Equal(t, DefaultSeedFile, target.SeedFile)
	})

	t.Run("boolean false with SetFields", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{Metrics: false, SetFields: map[string]bool{"metrics": true}}, SourceFile)
		assert.False(t, target.Metrics)
		assert.Equal(t, SourceFile, target.Sources["metrics"])
	})

	t.Run("boolean false without SetFields", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{Metrics: false}, SourceFlag)
		assert.True(t, target.Metrics)
	})

	t.Run("nil source is no-op", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, nil, SourceFile)
		assert.Equal(t, DefaultPort, target.Port)
	})
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("records present keys", func(t *testing.T) {
		path := filepath.Join(dir, "ok.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: 8080\nmetrics: false\nlogLevel: debug\n"), 0o600))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.False(t, cfg.Metrics)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.SetFields["metrics"])
		assert.False(t, cfg.SetFields["seedFile"])
		assert.Equal(t, path, cfg.ConfigFile)
	})

	t.Run("syntax error carries path and line", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: 8080\n  seedFile: [oops\n"), 0o600))

		_, err := LoadConfigFile(path)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, path, cerr.Path)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("type mismatch", func(t *testing.T) {
		path := filepath.Join(dir, "type.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: lots\n"), 0o600))

		_, err := LoadConfigFile(path)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadEnvConfig(t *testing.T) {
	t.Run("PORT wins over NODE_PORT and POKEDEX_PORT", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvPokedexPort, "4000")
		t.Setenv(EnvNodePort, "5000")
		t.Setenv(EnvPort, "6000")

		cfg := NewDefault()
		require.NoError(t, LoadEnvConfig(cfg))
		assert.Equal(t, 6000, cfg.Port)
		assert.Equal(t, SourceEnv, cfg.Sources["port"])
	})

	t.Run("NODE_PORT used when PORT unset", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvNodePort, "5000")

		cfg := NewDefault()
		require.NoError(t, LoadEnvConfig(cfg))
		assert.Equal(t, 5000, cfg.Port)
	})

	t.Run("string settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvSeed, "/data/seed.json")
		t.Setenv(EnvStaticDir, "/srv/client")
		t.Setenv(EnvLogLevel, "warn")
		t.Setenv(EnvLogFormat, "json")
		t.Setenv(EnvMaxBodySize, "2048")
		t.Setenv(EnvMetrics, "false")

		cfg := NewDefault()
		require.NoError(t, LoadEnvConfig(cfg))
		assert.Equal(t, "/data/seed.json", cfg.SeedFile)
		assert.Equal(t, "/srv/client", cfg.StaticDir)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, int64(2048), cfg.MaxBodySize)
		assert.False(t, cfg.Metrics)
	})

	t.Run("invalid port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvPort, "http")
		assert.ErrorContains(t, LoadEnvConfig(NewDefault()), "invalid PORT")
	})
}

func TestLoadAll(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		clearEnv(t)
		chdir(t, t.TempDir())

		cfg, err := LoadAll("")
		require.NoError(t, err)
		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Empty(t, cfg.ConfigFile)
	})

	t.Run("local file then env", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		chdir(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".pokedexrc.yaml"), []byte("port: 8080\nseedFile: mine.json\n"), 0o600))
		t.Setenv(EnvPort, "9090")

		cfg, err := LoadAll("")
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, SourceEnv, cfg.Sources["port"])
		assert.Equal(t, "mine.json", cfg.SeedFile)
		assert.Equal(t, SourceFile, cfg.Sources["seedFile"])
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		clearEnv(t)
		chdir(t, t.TempDir())

		_, err := LoadAll("missing.yaml")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("POKEDEX_CONFIG", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		chdir(t, dir)
		path := filepath.Join(dir, "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("staticDir: web\n"), 0o600))
		t.Setenv(EnvConfig, path)

		cfg, err := LoadAll("")
		require.NoError(t, err)
		assert.Equal(t, "web", cfg.StaticDir)
		assert.Equal(t, path, cfg.ConfigFile)
	})
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
