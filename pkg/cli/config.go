package cli

import (
	"fmt"
	"strconv"

	"github.com/getmockd/pokedex/pkg/cli/internal/output"
	"github.com/getmockd/pokedex/pkg/cliconfig"
	"github.com/spf13/cobra"
)

// ConfigEntry is one resolved setting and the source that supplied it.
type ConfigEntry struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newConfigCmd() *cobra.Command {
	f := &configFlags{}
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			entries := configEntries(cfg)

			if jsonOutput {
				return output.JSON(cmd.OutOrStdout(), entries)
			}

			tw := output.Table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.Source)
			}
			if cfg.ConfigFile != "" {
				fmt.Fprintf(tw, "configFile\t%s\t\n", cfg.ConfigFile)
			}
			return tw.Flush()
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func configEntries(cfg *cliconfig.Config) []ConfigEntry {
	values := []struct {
		key   string
		value string
	}{
		{"port", strconv.Itoa(cfg.Port)},
		{"readTimeout", strconv.Itoa(cfg.ReadTimeout)},
		{"writeTimeout", strconv.Itoa(cfg.WriteTimeout)},
		{"maxBodySize", strconv.FormatInt(cfg.MaxBodySize, 10)},
		{"seedFile", cfg.SeedFile},
		{"staticDir", cfg.StaticDir},
		{"logLevel", cfg.LogLevel},
		{"logFormat", cfg.LogFormat},
		{"metrics", strconv.FormatBool(cfg.Metrics)},
	}

	entries := make([]ConfigEntry, 0, len(values))
	for _, v := range values {
		source := cfg.Sources[v.key]
		if source == "" {
			source = cliconfig.SourceDefault
		}
		entries = append(entries, ConfigEntry{Key: v.key, Value: v.value, Source: source})
	}
	return entries
}
