// Command resolverd consumes preview jobs from the shared Redis queue,
// resolves them against the Furtrack data API or a headless browser,
// and writes results back for previewd to serve.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/browser"
	cacheredis "github.com/blumlaut/fxfurtrack/internal/cache"
	"github.com/blumlaut/fxfurtrack/internal/config"
	"github.com/blumlaut/fxfurtrack/internal/logging"
	"github.com/blumlaut/fxfurtrack/internal/metrics"
	queueredis "github.com/blumlaut/fxfurtrack/internal/queue"
	"github.com/blumlaut/fxfurtrack/internal/resolver"
	"github.com/blumlaut/fxfurtrack/internal/upstream"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("redis close failed", zap.Error(closeErr))
		}
	}()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis unreachable", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
	}

	var api resolver.API
	if cfg.Resolver.Strategy == config.StrategyAPI {
		api = upstream.New(upstream.Config{
			BaseURL:   cfg.Upstream.BaseURL,
			Token:     cfg.Upstream.Token,
			UserAgent: cfg.Upstream.UserAgent,
			Timeout:   time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		}, logger.Named("upstream"))
	}

	scraper := browser.New(browser.Config{
		UserAgent:    cfg.Upstream.UserAgent,
		NavTimeout:   time.Duration(cfg.Browser.NavTimeoutSeconds) * time.Second,
		ReadyTimeout: time.Duration(cfg.Browser.ReadyTimeoutSeconds) * time.Second,
	}, logger.Named("browser"))
	defer scraper.Shutdown()

	cache := cacheredis.NewRedis(client)
	queue := queueredis.NewRedis(client, cfg.Queue.Name)
	engine := resolver.NewEngine(cache, api, scraper, cfg.CacheTTL(), logger.Named("resolver"))
	worker := resolver.NewWorker(queue, engine, logger.Named("worker"))

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server started", zap.Int("port", cfg.Server.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	logger.Info("worker started", zap.String("queue", cfg.Queue.Name))
	worker.Run(ctx)

	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
