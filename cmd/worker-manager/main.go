package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"venue-workers/internal/common/camunda"
	"venue-workers/internal/common/config"
	"venue-workers/internal/common/database"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/observability"
	"venue-workers/internal/common/validation"
	"venue-workers/internal/repository"
	"venue-workers/pkg/registry"

	css "venue-workers/internal/workers/performance/calculate-staff-score"
	rpr "venue-workers/internal/workers/performance/record-performance-review"
	rs "venue-workers/internal/workers/staffing/recommend-staffing"
	srb "venue-workers/internal/workers/staffing/seed-revenue-bands"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "json")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name, observability.WithLogger(log))
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Activity registry & input schemas ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	validator, err := validation.NewValidatorFromSchemas(reg.InputSchemas())
	if err != nil {
		zapLog.Fatal("input schema compile failed", zap.Error(err))
	}

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()

	log.Info("backing services connected", nil)

	bands := repository.NewBandRepository(pg.DB, redis, config.GetDuration(cfg.Staffing.BandCacheTTL), log)
	reviews := repository.NewReviewRepository(pg.DB)

	handlers := buildHandlers(cfg, bands, reviews, validator, log)

	// --- Workers ---
	var workers []*camunda.CamundaWorker
	for _, taskType := range sortedTaskTypes(handlers) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			continue
		}
		if _, ok := reg.Find(taskType); !ok {
			log.Warn("worker has no registry entry; input will not be schema-checked", map[string]interface{}{"taskType": taskType})
		}
		workers = append(workers, camunda.NewWorker(
			zeebe.GetClient(),
			taskType,
			config.GetWorkerConfig(cfg, taskType),
			handlers[taskType],
			obs,
			log,
		))
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(map[string]func(context.Context) error{
		"postgres": pg.Ping,
		"redis":    redis.Ping,
		"zeebe":    zeebe.HealthCheck,
	}))
	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped", nil)
}

// buildHandlers wires every job handler to its stores, using the worker's
// configured timeout when one is set.
func buildHandlers(
	cfg *config.Config,
	bands *repository.BandRepository,
	reviews *repository.ReviewRepository,
	validator *validation.Validator,
	log logger.Logger,
) map[string]camunda.JobHandler {
	timeoutFor := func(taskType string, fallback time.Duration) time.Duration {
		if wcfg, ok := cfg.Workers[taskType]; ok && wcfg.Timeout > 0 {
			return config.GetDuration(wcfg.Timeout)
		}
		return fallback
	}

	rsCfg := rs.LoadConfig()
	rsCfg.Timeout = timeoutFor(rs.TaskType, rsCfg.Timeout)

	srbCfg := srb.LoadConfig()
	srbCfg.Timeout = timeoutFor(srb.TaskType, srbCfg.Timeout)

	cssCfg := css.LoadConfig()
	cssCfg.Timeout = timeoutFor(css.TaskType, cssCfg.Timeout)
	cssCfg.MaxScore = cfg.Scoring.MaxScore

	rprCfg := rpr.LoadConfig()
	rprCfg.Timeout = timeoutFor(rpr.TaskType, rprCfg.Timeout)
	rprCfg.MaxScore = cfg.Scoring.MaxScore
	rprCfg.HistoryLimit = cfg.Scoring.HistoryLimit

	return map[string]camunda.JobHandler{
		rs.TaskType:  rs.NewHandler(rsCfg, bands, validator, log),
		srb.TaskType: srb.NewHandler(srbCfg, bands, validator, log),
		css.TaskType: css.NewHandler(cssCfg, validator, log),
		rpr.TaskType: rpr.NewHandler(rprCfg, reviews, validator, log),
	}
}

func sortedTaskTypes(handlers map[string]camunda.JobHandler) []string {
	out := make([]string, 0, len(handlers))
	for t := range handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// healthHandler runs every dependency check and reports 503 if any fails.
func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": results,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
