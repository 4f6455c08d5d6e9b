package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TwigBush/indexgate/internal/config"
	"github.com/TwigBush/indexgate/internal/di"
	"github.com/TwigBush/indexgate/internal/metrics"
	"github.com/TwigBush/indexgate/internal/server"
)

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.JSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func cmdServe() *cobra.Command {
	var envFile string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway API and metrics listeners",
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real env vars win
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Log)
			slog.SetDefault(log)

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipeline, err := di.ProvidePipeline(ctx, cfg, log)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			if err := metrics.Register(reg); err != nil {
				return err
			}

			api := server.BuildRouter(server.Deps{Pipeline: pipeline}, server.Options{
				AllowedOrigins: cfg.CORS.AllowedOrigins,
				Logger:         log,
			})

			log.Info("starting",
				"authz", cfg.Authz.Backend,
				"services", cfg.Services.Backend,
				"guard_delete", cfg.Authz.GuardDelete,
				"authz_timeout", cfg.Authz.Timeout.String(),
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Run(gctx, cfg.Listen, api, "api") })
			if cfg.MetricsListen != "" {
				g.Go(func() error { return server.Run(gctx, cfg.MetricsListen, metrics.Handler(reg), "metrics") })
			}
			return g.Wait()
		},
	}
	c.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading config")
	return c
}

// contextOrBackground guards commands invoked without ExecuteContext.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
