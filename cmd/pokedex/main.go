// pokedex serves a Pokémon catalog and its browser client over HTTP.
package main

import (
	"context"
	"os"

	"github.com/getmockd/pokedex/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
