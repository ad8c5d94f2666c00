package cli

import (
	"github.com/getmockd/pokedex/pkg/cliconfig"
	"github.com/spf13/cobra"
)

// configFlags holds the flags shared by every command that resolves a
// configuration. Only flags the user changed override lower sources.
type configFlags struct {
	configFile   string
	port         int
	seedFile     string
	staticDir    string
	logLevel     string
	logFormat    string
	maxBodySize  int64
	readTimeout  int
	writeTimeout int
	metrics      bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "Path to config file (default: .pokedexrc.yaml or $POKEDEX_CONFIG)")
	flags.IntVarP(&f.port, "port", "p", cliconfig.DefaultPort, "HTTP server port")
	flags.StringVar(&f.seedFile, "seed", cliconfig.DefaultSeedFile, "Path to the JSON seed document")
	flags.StringVar(&f.staticDir, "static-dir", cliconfig.DefaultStaticDir, "Directory holding the browser client")
	flags.StringVar(&f.logLevel, "log-level", cliconfig.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&f.logFormat, "log-format", cliconfig.DefaultLogFormat, "Log format (text, json)")
	flags.Int64Var(&f.maxBodySize, "max-body-size", cliconfig.DefaultMaxBodySize, "Maximum request body size in bytes")
	flags.IntVar(&f.readTimeout, "read-timeout", cliconfig.DefaultReadTimeout, "Read timeout in seconds")
	flags.IntVar(&f.writeTimeout, "write-timeout", cliconfig.DefaultWriteTimeout, "Write timeout in seconds")
	flags.BoolVar(&f.metrics, "metrics", true, "Expose Prometheus metrics at /metrics")
}

// resolve loads defaults, the config file and the environment, applies
// changed flags on top, and validates the result.
func (f *configFlags) resolve(cmd *cobra.Command) (*cliconfig.Config, error) {
	cfg, err := cliconfig.LoadAll(f.configFile)
	if err != nil {
		return nil, err
	}
	f.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *configFlags) apply(cmd *cobra.Command, cfg *cliconfig.Config) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}
	flags := cmd.Flags()
	set := func(flag, key string, assign func()) {
		if flags.Changed(flag) {
			assign()
			cfg.Sources[key] = cliconfig.SourceFlag
		}
	}

	set("port", "port", func() { cfg.Port = f.port })
	set("seed", "seedFile", func() { cfg.SeedFile = f.seedFile })
	set("static-dir", "staticDir", func() { cfg.StaticDir = f.staticDir })
	set("log-level", "logLevel", func() { cfg.LogLevel = f.logLevel })
	set("log-format", "logFormat", func() { cfg.LogFormat = f.logFormat })
	set("max-body-size", "maxBodySize", func() { cfg.MaxBodySize = f.maxBodySize })
	set("read-timeout", "readTimeout", func() { cfg.ReadTimeout = f.readTimeout })
	set("write-timeout", "writeTimeout", func() { cfg.WriteTimeout = f.writeTimeout })
	set("metrics", "metrics", func() { cfg.Metrics = f.metrics })
}
