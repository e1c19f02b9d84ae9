// Command previewd serves the public preview endpoint. It classifies
// incoming paths, submits jobs to the shared Redis queue, and renders
// the results produced by resolverd workers.
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

	"github.com/blumlaut/fxfurtrack/internal/api"
	"github.com/blumlaut/fxfurtrack/internal/config"
	"github.com/blumlaut/fxfurtrack/internal/dispatcher"
	"github.com/blumlaut/fxfurtrack/internal/logging"
	"github.com/blumlaut/fxfurtrack/internal/metrics"
	queueredis "github.com/blumlaut/fxfurtrack/internal/queue"
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

	queue := queueredis.NewRedis(client, cfg.Queue.Name)
	dispatch := dispatcher.New(queue, cfg.AwaitTimeout(), logger.Named("dispatcher"))
	apiServer := api.NewServer(dispatch, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
