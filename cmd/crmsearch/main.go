package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/crmsearch/internal/auth"
	"github.com/kailas-cloud/crmsearch/internal/background"
	"github.com/kailas-cloud/crmsearch/internal/config"
	"github.com/kailas-cloud/crmsearch/internal/db"
	dbPostgres "github.com/kailas-cloud/crmsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/crmsearch/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/crmsearch/internal/db/sqlite"
	domdash "github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/crmsearch/internal/logger"
	"github.com/kailas-cloud/crmsearch/internal/metrics"
	dashboardrepo "github.com/kailas-cloud/crmsearch/internal/repository/dashboard"
	"github.com/kailas-cloud/crmsearch/internal/repository/entity"
	"github.com/kailas-cloud/crmsearch/internal/repository/tiercache"
	chiTransport "github.com/kailas-cloud/crmsearch/internal/transport/chi"
	dashboarduc "github.com/kailas-cloud/crmsearch/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/crmsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/crmsearch/internal/usecase/search"
	"github.com/kailas-cloud/crmsearch/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:    "crmsearch",
		Usage:   "CRM global search and tiered dashboard summary API",
		Version: version.String(),
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Environment name, selects config/{env}.yaml",
				Value:   logpkg.EnvLocal,
				Sources: cli.EnvVars("ENV"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Explicit path to config file (overrides --env lookup)",
				Sources: cli.EnvVars("CRMSEARCH_CONFIG_FILE"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "crmsearch:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	env := cmd.String("env")

	var (
		cfg config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting crmsearch API server",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	source, err := openDataSource(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open data source: %w", err)
	}
	defer source.Close()

	if err := source.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	cache, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Username: cfg.Cache.Username,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		return fmt.Errorf("create cache store: %w", err)
	}
	defer cache.Close()

	// An unreachable cache is redialed by the store and only degrades the dashboard.
	if err := cache.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Cache not ready, dashboard will read through", zap.Error(err))
	} else {
		logger.Info("Connected to cache")
	}

	verifier, err := auth.NewVerifier(auth.Config{
		Secret:       cfg.Auth.JWTSecret,
		Issuer:       cfg.Auth.Issuer,
		Audience:     cfg.Auth.Audience,
		AllowedRoles: cfg.Auth.AllowedRoles,
		Leeway:       cfg.Auth.Leeway(),
	})
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}

	metrics.RegisterDomainMetrics()

	// Search
	entityAdapters := entity.NewAll(source, entity.Metrics{
		Requests: metrics.SearchAdapterRequestsTotal,
		Duration: metrics.SearchAdapterDuration,
	})
	adapters := make([]searchuc.Adapter, len(entityAdapters))
	for i, a := range entityAdapters {
		adapters[i] = a
	}
	searchSvc := searchuc.New(adapters, searchuc.WithFailureCounter(metrics.SearchAdapterFailuresTotal))

	// Dashboard
	runner := background.New(
		time.Duration(cfg.Dashboard.BackgroundTimeoutSec)*time.Second,
		logger, metrics.BackgroundTaskErrorsTotal,
	)
	tierCache := tiercache.New(cache, tiercache.Config{
		KeyPrefix: cfg.Storage.KeyPrefix,
		Version:   cfg.Dashboard.CacheVersion,
		Breaker: tiercache.BreakerConfig{
			MaxRequests:      cfg.Cache.Breaker.MaxRequests,
			Interval:         time.Duration(cfg.Cache.Breaker.IntervalSec) * time.Second,
			Timeout:          time.Duration(cfg.Cache.Breaker.TimeoutSec) * time.Second,
			FailureThreshold: cfg.Cache.Breaker.FailureThreshold,
		},
	}, metrics.DashboardCacheTotal, logger)
	dashboardSvc := dashboarduc.New(tierCache, dashboardrepo.New(source), runner,
		dashboarduc.WithFetchErrorCounter(metrics.DashboardTierFetchErrorsTotal))

	healthSvc := healthuc.New(cache, source)

	server := chiTransport.NewServer(searchSvc, dashboardSvc, healthSvc,
		chiTransport.WithSearchLimits(request.Limits{
			Default: cfg.Search.DefaultLimit,
			Max:     cfg.Search.MaxLimit,
		}),
		chiTransport.WithDefaultTimeRange(domdash.TimeRange(cfg.Dashboard.DefaultTimeRange)),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, verifier, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-sigCtx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Let pending cache writes finish before the stores close.
	runner.Wait()

	logger.Info("Server stopped gracefully")
	return nil
}

func openDataSource(ctx context.Context, cfg config.DatabaseConfig) (db.DataSource, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return dbPostgres.NewStore(ctx, dbPostgres.Config{DSN: cfg.DSN, MaxConns: cfg.MaxConns})
	case config.DriverSQLite:
		return dbSQLite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
