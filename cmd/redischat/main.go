package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/redischat/internal/app"
	"github.com/vovakirdan/redischat/internal/config"
	"github.com/vovakirdan/redischat/internal/log"
)

var (
	// Global flags
	configPath string
	overrides  config.Config

	cfg    config.Config
	logger *zerolog.Logger
)

// rootCmd runs the interactive chat client.
var rootCmd = &cobra.Command{
	Use:   "redischat",
	Short: "Interactive chat over Redis pub/sub",
	Long: `redischat is a terminal chat client backed by Redis.

Identify yourself, join channels, send public and private messages, and
look up weather reports and fun facts. Run without arguments to start the
interactive prompt, or use "serve" to expose the same operations over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bootstrap := log.New(overrides.LogLevel)

		loaded, path, err := config.Load(bootstrap, configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		loaded.UpdateFrom(overrides)
		cfg = loaded

		logger = log.New(cfg.LogLevel)
		logger.Debug().Str("config", path).Msg("configuration loaded")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			return a.RunInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

// serveCmd runs the HTTP bridge.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat operations over HTTP and WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			logger.Info().Str("addr", cfg.Addr).Msg("starting redischat bridge")
			if err := a.Serve(ctx); err != nil {
				return err
			}
			logger.Info().Msg("bridge stopped")
			return nil
		})
	},
}

func withApp(run func(context.Context, *app.App) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return run(ctx, a)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file path (or set REDISCHAT_CONFIG_DEFAULT_PATH)")
	flags.StringVar(&overrides.RedisAddr, "redis-addr", "", "Redis address host:port")
	flags.BoolVar(&overrides.Embedded, "embedded", false, "Run against an in-process Redis")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "Log level (debug, info, warn, error, disabled)")
	flags.StringVar(&overrides.SeedFile, "seed-file", "", "YAML file with weather and facts seed data")

	serveCmd.Flags().StringVar(&overrides.Addr, "addr", "", "HTTP listen address")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
