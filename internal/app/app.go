package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/redischat/internal/cli"
	"github.com/vovakirdan/redischat/internal/config"
	"github.com/vovakirdan/redischat/internal/core"
	"github.com/vovakirdan/redischat/internal/metrics"
	"github.com/vovakirdan/redischat/internal/store/embedded"
	"github.com/vovakirdan/redischat/internal/store/redisstore"
	transporthttp "github.com/vovakirdan/redischat/internal/transport/http"
	"github.com/vovakirdan/redischat/internal/utils"
)

// App wires together the store, the chat service and the front ends.
type App struct {
	cfg      *config.Config
	embedded *embedded.Server
	store    *redisstore.RedisStore
	svc      *core.Service
	metrics  *metrics.Metrics
	log      *zerolog.Logger
}

// New connects to the store (starting an embedded one if configured) and
// writes the seed data.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	addr, protocol := cfg.RedisAddr, cfg.RedisProtocol
	if cfg.Embedded {
		srv, err := embedded.Start()
		if err != nil {
			return nil, err
		}
		a.embedded = srv
		addr, protocol = srv.Addr(), embedded.Protocol
		logger.Info().Str("addr", addr).Msg("embedded redis started")
	}

	st, err := redisstore.New(ctx, redisstore.Options{
		Addr:       addr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		Protocol:   protocol,
		ClientName: utils.ClientName("client"),
		PollWait:   cfg.PollTimeout,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	a.store = st
	logger.Info().Str("addr", addr).Int("db", cfg.RedisDB).Msg("connected to redis")

	a.metrics = metrics.New()
	a.svc = core.NewService(st, core.Options{
		HistoryLimit:   cfg.HistoryLimit,
		HistoryDisplay: cfg.HistoryDisplay,
		Metrics:        a.metrics,
		Logger:         logger,
	})

	seed, err := core.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := a.svc.Seed(ctx, seed); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// RunInteractive runs the chat prompt over in/out until quit or end of input.
func (a *App) RunInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	sess := core.NewSession(ctx, a.svc)
	defer func() {
		if err := sess.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close session")
		}
	}()

	return cli.New(sess, in, out, a.log).Run(ctx)
}

// Serve starts the HTTP bridge and blocks until context cancellation or fatal error.
func (a *App) Serve(ctx context.Context) error {
	server := transporthttp.NewServer(a.svc, a.metrics, a.cfg, a.log)
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", server.Addr).Msg("http bridge listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// Close releases the store connection and stops the embedded server.
func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
	if a.embedded != nil {
		a.embedded.Close()
	}
}
