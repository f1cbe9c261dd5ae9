// cmd/directory-server/main.go
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

	"go.uber.org/zap"

	"llc-directory/internal/api"
	"llc-directory/internal/catalog"
	"llc-directory/internal/common/camunda"
	"llc-directory/internal/common/config"
	"llc-directory/internal/common/database"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/common/observability"
	"llc-directory/internal/dataset"
	"llc-directory/internal/directory"
	"llc-directory/pkg/registry"

	lpp "llc-directory/internal/workers/directory/lookup-provider-profile"
	qp "llc-directory/internal/workers/directory/query-providers"
	sd "llc-directory/internal/workers/directory/summarize-dataset"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})

	zapLog.Info("Starting directory server...",
		zap.String("version", cfg.App.Version),
		zap.String("datasetMode", cfg.Dataset.Mode),
		zap.Strings("candidatePaths", cfg.Dataset.CandidatePaths),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	checks := make(map[string]api.ReadinessCheck)

	// --- Redis (dataset cache) ---
	var redis *database.RedisClient
	if cfg.Cache.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		checks["redis"] = redis.Ping
		zapLog.Info("Redis connected successfully", zap.Duration("cacheTTL", cfg.Cache.TTLDuration()))
	}

	// --- Directory ---
	source, err := dataset.NewSource(cfg, redis, obs, log)
	if err != nil {
		zapLog.Fatal("dataset source setup failed", zap.Error(err))
	}
	cat := catalog.MustDefault()
	svc := directory.NewService(source, cat, directory.Options{
		MaxRows: cfg.Dataset.MaxRows,
		Obs:     obs,
	}, log)

	// --- Zeebe workers (optional) ---
	var workers *camunda.WorkerSet
	if cfg.WorkersEnabled() {
		var zeebe *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: cfg.Camunda.UsePlaintext,
				ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		checks["zeebe"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		activities, err := registry.Default()
		if err != nil {
			zapLog.Fatal("activity registry invalid", zap.Error(err))
		}

		qpCfg := qp.LoadConfig()
		qpCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, qp.TaskType).Timeout)
		sdCfg := sd.LoadConfig()
		sdCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, sd.TaskType).Timeout)

		handlers := map[string]camunda.HandlerFunc{
			qp.TaskType:  qp.NewHandler(qpCfg, svc, log).Handle,
			sd.TaskType:  sd.NewHandler(sdCfg, svc, log).Handle,
			lpp.TaskType: lpp.NewHandler(&lpp.Config{}, cat, log).Handle,
		}

		workers = camunda.NewWorkerSet(zeebe.GetClient(), log)
		for _, activity := range activities.Activities {
			handler, ok := handlers[activity.TaskType]
			if !ok {
				zapLog.Warn("No handler for registered activity", zap.String("taskType", activity.TaskType))
				continue
			}
			workers.Start(activity.TaskType, config.GetWorkerConfig(cfg, activity.TaskType), handler)
		}

		zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.TaskTypes()))
	} else {
		zapLog.Info("No Zeebe broker configured, job workers disabled")
	}

	// --- HTTP API ---
	server := api.NewServer(svc, api.Options{
		AppName:    cfg.App.Name,
		AppVersion: cfg.App.Version,
		Checks:     checks,
	}, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if workers != nil {
		workers.Close()
	}

	zapLog.Info("Directory server stopped")
}
