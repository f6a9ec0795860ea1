package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devflow-dev/devflow/internal/config"
	"github.com/devflow-dev/devflow/internal/errors"
	"github.com/devflow-dev/devflow/pkg/questions"
	"github.com/devflow-dev/devflow/pkg/search"
	"github.com/devflow-dev/devflow/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the DevFlow server",
		Long: `Starts the HTTP server with the question list, the live search
socket and the auth forms.

Settings come from devflow.yaml in the working directory (or --config),
then DEVFLOW_ADDR, DEVFLOW_LOG_LEVEL and DEVFLOW_LOG_FORMAT, then flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to devflow.yaml")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := questions.NewStore(newSource(cfg.Questions),
		questions.WithTTL(cfg.Questions.TTL),
		questions.WithLogger(logger),
	)
	srv := server.New(serverConfig(cfg), store, server.WithLogger(logger))

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return errors.New(errors.CodeListen).Wrap(err)
	}

	info("Questions: %s", cfg.Questions.Source)
	success("Listening on http://%s", displayAddr(ln.Addr()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ctx, ln); err != nil {
			return errors.New(errors.CodeShutdown).Wrap(err)
		}
		return nil
	})
	g.Go(func() error {
		// Warm the store so the first page view does not pay for the load.
		// A failure here is served as an unavailable notice, not a crash.
		if _, err := store.Dataset(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("question dataset unavailable", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	info("Server stopped")
	return nil
}

func serverConfig(cfg *config.Config) server.Config {
	return server.Config{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Search: search.Config{
			TargetRoute:              cfg.Search.Route,
			Key:                      cfg.Search.Key,
			Delay:                    cfg.Search.Debounce,
			OwnsQueryOnRouteMismatch: cfg.Search.OwnsQuery,
		},
		Metrics:          cfg.Metrics.Enabled,
		MetricsPath:      cfg.Metrics.Path,
		MetricsNamespace: cfg.Metrics.Namespace,
		TracerName:       cfg.Tracing.TracerName,
	}
}

// displayAddr replaces an unspecified host with localhost.
func displayAddr(a net.Addr) string {
	host, port, err := net.SplitHostPort(a.String())
	if err != nil {
		return a.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
