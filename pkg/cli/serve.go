package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getmockd/pokedex/pkg/catalog"
	"github.com/getmockd/pokedex/pkg/cliconfig"
	"github.com/getmockd/pokedex/pkg/docs"
	"github.com/getmockd/pokedex/pkg/engine"
	"github.com/getmockd/pokedex/pkg/logging"
	"github.com/getmockd/pokedex/pkg/metrics"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	f := &configFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pokedex HTTP server",
		Long: `Start the pokedex HTTP server.

The seed document is loaded once at startup; a missing or malformed seed is
fatal. The catalog then lives in memory until the process exits.`,
		Example: `  # Start on the default port
  pokedex serve

  # Start on a custom port with JSON logs
  pokedex serve --port 8080 --log-format json

  # Use a different seed document
  pokedex serve --seed ./data/pokedex.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.ErrOrStderr())
		},
	}
	f.register(cmd)
	return cmd
}

// runServe starts the server described by cfg and blocks until ctx is done
// or the server fails.
func runServe(ctx context.Context, cfg *cliconfig.Config, logOut io.Writer) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: logOut,
	})
	if cfg.ConfigFile != "" {
		log.Info("loaded config file", "path", cfg.ConfigFile)
	}

	handler, err := buildHandler(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv := engine.NewServer(engine.ServerConfig{
		Port:         cfg.Port,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}, handler, engine.WithServerLogger(log))

	if err := srv.Start(); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case serveErr = <-srv.Errors():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), engine.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

// buildHandler loads the seed and assembles the request handler.
func buildHandler(ctx context.Context, cfg *cliconfig.Config, log *slog.Logger) (*engine.Handler, error) {
	records, err := catalog.LoadSeed(cfg.SeedFile)
	if err != nil {
		log.Error("failed to load seed", "path", cfg.SeedFile, "error", err)
		return nil, err
	}
	log.Info("loaded pokemon", "count", len(records), "path", cfg.SeedFile)
	store := catalog.NewStore(records)

	doc, err := docs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load API document: %w", err)
	}

	if info, err := os.Stat(cfg.StaticDir); err != nil || !info.IsDir() {
		log.Warn("static directory not found", "dir", cfg.StaticDir)
	}

	opts := []engine.HandlerOption{
		engine.WithLogger(log),
		engine.WithAssets(os.DirFS(cfg.StaticDir)),
		engine.WithDocs(doc.Handler()),
		engine.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.Metrics {
		opts = append(opts, engine.WithMetrics(metrics.New(store.Len)))
	}
	return engine.NewHandler(store, opts...), nil
}
