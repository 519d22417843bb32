package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonMunkholm/csv2json/internal/config"
	"github.com/JonMunkholm/csv2json/internal/core"
	"github.com/JonMunkholm/csv2json/internal/logging"
	"github.com/JonMunkholm/csv2json/internal/metrics"
	"github.com/JonMunkholm/csv2json/internal/store"
	"github.com/JonMunkholm/csv2json/internal/web"
	"github.com/sony/gobreaker/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(flags.envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database", "max_conns", cfg.Database.MaxConns)

	if cfg.Database.RunMigrations {
		if err := store.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	m := metrics.New()

	var docs store.Store = store.NewBreakerStore(store.NewPgStore(pool), store.BreakerSettings{
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		OnStateChange: func(_, to gobreaker.State) {
			m.SetBreakerState(int(to))
		},
	}, logger)

	if cfg.Cache.Enabled() {
		rdb, err := store.ConnectRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		docs = store.NewCachedStore(docs, rdb, cfg.Cache.TTL, logger)
		logger.Info("document cache enabled", "ttl", cfg.Cache.TTL)
	}

	limiter := core.NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	m.RegisterUploadGauge(func() float64 { return float64(limiter.ActiveCount()) })

	service := core.NewService(docs, limiter, m, core.ServiceConfig{
		Limit:     cfg.Upload.MaxBodySize,
		ChunkSize: cfg.Upload.ReadChunkSize,
	})
	server := web.NewServer(service, m, cfg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		return shutdown(server, limiter, cfg.Server.ShutdownTimeout, logger)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// shutdown stops accepting requests, then waits for any extraction still
// holding an upload slot.
func shutdown(server *web.Server, limiter *core.UploadLimiter, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	if status := limiter.Status(); status.Active > 0 {
		logger.Info("waiting for uploads to complete", "active", status.Active)
		if err := limiter.WaitForDrain(ctx); err != nil {
			return fmt.Errorf("uploads did not complete in time: %w", err)
		}
		logger.Info("all uploads completed")
	}
	return nil
}
