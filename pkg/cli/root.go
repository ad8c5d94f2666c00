// Package cli implements the pokedex command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// NewRootCommand builds the pokedex command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pokedex",
		Short: "pokedex serves a small Pokémon catalog over HTTP",
		Long: `pokedex loads a catalog of Pokémon from a JSON seed file and serves it
over HTTP, together with a static browser client.

Configuration can be provided via flags, environment variables, or a configuration file.
By default, pokedex looks for .pokedexrc.yaml in the working directory.`,
		// No Run function here means 'pokedex' with no args will print help text by default.
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newValidateCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command with ctx and reports any error to stderr.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
