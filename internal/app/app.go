package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"example.com/mastermind/internal/config"
	"example.com/mastermind/internal/httpapi"
	"example.com/mastermind/internal/randomorg"
	"example.com/mastermind/internal/session"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	rdb   *redis.Client
	games *session.Service

	srv *http.Server
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	defaults, err := cfg.GameDefaults()
	if err != nil {
		return nil, err
	}

	// --- Quota cache ---
	var (
		rdb   *redis.Client
		quota randomorg.QuotaCache
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
		}
		quota = randomorg.NewRedisQuotaCache(rdb, cfg.Redis.QuotaTTL)
		log.Info("quota cache in redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	} else {
		quota = randomorg.NewMemoryQuotaCache(cfg.Redis.QuotaTTL)
		log.Info("quota cache in memory")
	}

	// --- Secret source ---
	remote := randomorg.New(randomorg.Config{
		BaseURL:       cfg.RandomOrg.URL,
		Timeout:       cfg.RandomOrg.Timeout,
		RatePerSecond: cfg.RandomOrg.RatePerSecond,
	}, quota, log.With("component", "randomorg"))

	// --- Games ---
	games := session.NewService(session.Config{
		Defaults:      defaults,
		SupplyTimeout: cfg.RandomOrg.Timeout,
		IdleTTL:       cfg.Session.IdleTTL,
	}, session.NewInMemoryStore(), remote.Supplier, log.With("component", "session"))

	h := httpapi.NewHandler(games, log)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(h, log),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, rdb: rdb, games: games, srv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return a.games.RunSweeper(gctx, a.cfg.Session.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

// Handler exposes the router, mostly for tests.
func (a *App) Handler() http.Handler { return a.srv.Handler }

func (a *App) Close(ctx context.Context) error {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
