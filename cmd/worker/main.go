// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pos-inventory/internal/adapters/db"
	redis_a "github.com/ammerola/pos-inventory/internal/adapters/redis_adapter"
	"github.com/ammerola/pos-inventory/internal/bootstrap"
	"github.com/ammerola/pos-inventory/internal/core/services"
	"github.com/ammerola/pos-inventory/internal/pkg/config"
	"github.com/ammerola/pos-inventory/internal/pkg/logger"
	"github.com/ammerola/pos-inventory/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	if err := run(cfg, slogger); err != nil {
		slogger.Error("worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("worker shutdown complete")
}

func run(cfg *config.Config, slogger *slog.Logger) error {
	ctx := context.Background()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := services.NewClock(loc)

	// fewer connections than the API
	database, err := bootstrap.OpenDatabase(ctx, cfg, 10, slogger)
	if err != nil {
		return err
	}
	defer database.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg, slogger)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis_a.NewCache(redisClient, cfg.Redis.Namespace, cfg.Redis.TTL, slogger)

	fileStorage, err := bootstrap.OpenStorage(ctx, cfg, slogger)
	if err != nil {
		return err
	}

	products := db.NewProductRepository(database, slogger)
	orders := db.NewOrderRepository(database, slogger)
	suppliers := db.NewSupplierRepository(database, slogger)
	loads := db.NewLoadRepository(database, slogger)
	dashboard := db.NewDashboardRepository(database, slogger)

	catalogService := services.NewCatalogService(products, cache, slogger)
	supplierService := services.NewSupplierService(suppliers, loads, cache, slogger)
	salesService := services.NewSalesService(orders, dashboard, cache, clock, slogger)

	srv := asynq.NewServer(
		bootstrap.AsynqRedis(cfg),
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	mux := asynq.NewServeMux()
	mux.Use(taskContext(cfg.FileProcessing.ProcessingTimeout))

	excelProcessor := workers.NewExcelProcessor(catalogService, fileStorage, slogger)
	mux.HandleFunc(workers.TypeCatalogImport, excelProcessor.ProcessCatalogImport)

	pdfProcessor := workers.NewPDFProcessor(supplierService, fileStorage, cfg.FileProcessing.TempDir, loc, slogger)
	mux.HandleFunc(workers.TypeLoadPDFImport, pdfProcessor.ProcessLoadImport)

	analyticsProcessor := workers.NewAnalyticsProcessor(salesService, fileStorage, loc, slogger)
	mux.HandleFunc(workers.TypeDashboardRefresh, analyticsProcessor.RefreshDashboard)
	mux.HandleFunc(workers.TypeSalesReport, analyticsProcessor.GenerateSalesReport)

	cleanupProcessor := workers.NewCleanupProcessor(database, cache, cfg.FileProcessing.TempDir, cfg.FileProcessing.TempFileMaxAge, slogger)
	mux.HandleFunc(workers.TypeCleanup, cleanupProcessor.Cleanup)

	scheduler := asynq.NewScheduler(bootstrap.AsynqRedis(cfg), &asynq.SchedulerOpts{
		Location: loc,
		Logger:   newAsynqLogger(slogger),
	})
	if err := workers.RegisterPeriodicTasks(scheduler, workers.Schedules{
		Cleanup:   cfg.Asynq.CleanupSchedule,
		Dashboard: cfg.Asynq.DashboardSchedule,
	}, slogger); err != nil {
		return err
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	return nil
}

// taskContext bounds every task and tags its log records with the task id and type
func taskContext(timeout time.Duration) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if id, ok := asynq.GetTaskID(ctx); ok {
				ctx = context.WithValue(ctx, logger.ContextKeyTaskID, id)
			}
			ctx = context.WithValue(ctx, logger.ContextKeyTaskType, t.Type())
			return next.ProcessTask(ctx, t)
		})
	}
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retried", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
