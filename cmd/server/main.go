package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/backoffice/internal/app"
	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/metrics"
	"github.com/JonMunkholm/backoffice/internal/storage/postgres"
	"github.com/JonMunkholm/backoffice/internal/storage/redis"
	"github.com/JonMunkholm/backoffice/internal/web"
	"github.com/JonMunkholm/backoffice/migrations"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, pool); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// The rate cache is optional; without it every lookup reads Postgres.
	var (
		rateCache core.RateCache
		health    = map[string]web.Pinger{"postgres": pool}
	)
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("invalid redis configuration", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		cache := redis.NewRateCache(client, cfg.Redis.RateTTL)
		if err := cache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, continuing without rate cache until it recovers", "error", err)
		}
		rateCache = cache
		health["redis"] = cache
	}

	var (
		clk   = clock.NewSystem()
		m     = metrics.New(nil)
		tx    = postgres.NewTxRunner(pool)
		audit = postgres.NewAuditRepository(pool)
	)

	server, err := web.NewServer(web.Deps{
		Orders:   app.NewOrderService(postgres.NewOrderRepository(pool), audit, tx, clk, m, cfg.Orders.NumberRetries),
		Products: app.NewProductService(postgres.NewProductRepository(pool), audit, tx, clk, m),
		Rates:    app.NewRateService(postgres.NewRateRepository(pool), rateCache, audit, tx, clk, m, cfg.Orders.MaxRate),
		Metrics:  m,
		Health:   health,
	}, cfg)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
}
