// Command apiserver runs the compliance calendar HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	app "github.com/meridiancs/engage/internal/application/compliance"
	"github.com/meridiancs/engage/internal/config"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/logging"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/prometheus"
	infraredis "github.com/meridiancs/engage/internal/infrastructure/redis"
	"github.com/meridiancs/engage/internal/infrastructure/upstream"
	httpiface "github.com/meridiancs/engage/internal/interfaces/http"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	logger = logger.Named("apiserver")

	collector := prometheus.NewMetricsCollector(cfg.Metrics.Namespace, cfg.Metrics.Enabled)
	metrics := prometheus.NewAppMetrics(collector)

	client, err := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIKey,
		upstream.WithLogger(logger.Named("upstream")),
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithRetry(cfg.Upstream.RetryMax, cfg.Upstream.RetryWaitMin, cfg.Upstream.RetryWaitMax),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	guard := infraredis.NewLocalTransitionGuard()
	checks := map[string]httpiface.ReadinessCheck{}
	if cfg.Redis.Enabled {
		redisClient, err := infraredis.NewClient(ctx, cfg.Redis.Config, logger.Named("redis"))
		if err != nil {
			return err
		}
		defer redisClient.Close()
		guard = infraredis.NewTransitionGuard(redisClient, cfg.Redis.GuardTTL)
		checks["redis"] = redisClient.Ping
	}

	manager := app.NewManager(client, guard, app.SystemClock{}, logger.Named("compliance"), metrics)

	if configPath != "" {
		err := config.Watch(configPath, func(_ *config.Config) {
			logger.Info("config file changed; listener and upstream settings apply on restart")
		})
		if err != nil {
			logger.Warn("config watch unavailable", logging.Err(err))
		}
	}

	router := httpiface.NewRouter(httpiface.RouterDeps{
		Manager:   manager,
		Logger:    logger.Named("http"),
		Metrics:   metrics,
		Collector: collector,
		APIToken:  cfg.Server.APIToken,
		Checks:    checks,
	})
	server := httpiface.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
