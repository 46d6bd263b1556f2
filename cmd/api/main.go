// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pos-inventory/internal/adapters/db"
	redis_a "github.com/ammerola/pos-inventory/internal/adapters/redis_adapter"
	"github.com/ammerola/pos-inventory/internal/bootstrap"
	"github.com/ammerola/pos-inventory/internal/core/services"
	"github.com/ammerola/pos-inventory/internal/handlers"
	"github.com/ammerola/pos-inventory/internal/pkg/config"
	"github.com/ammerola/pos-inventory/internal/pkg/logger"
	"github.com/ammerola/pos-inventory/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	slogger.Info("starting point of sale API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = Version
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.String("time_zone", cfg.Shop.TimeZone),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	auth           *services.AuthService
	handlers       handlers.Handlers
}

func (d *dependencies) cleanup() {
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *dependencies, err error) {
	deps := &dependencies{}
	defer func() {
		if err != nil {
			deps.cleanup()
		}
	}()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clock := services.NewClock(loc)

	deps.database, err = bootstrap.OpenDatabase(ctx, cfg, 0, logger)
	if err != nil {
		return nil, err
	}

	deps.redisClient, err = bootstrap.OpenRedis(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	cache := redis_a.NewCache(deps.redisClient, cfg.Redis.Namespace, cfg.Redis.TTL, logger)

	fileStorage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing Asynq client")
	deps.asynqClient = asynq.NewClient(bootstrap.AsynqRedis(cfg))
	deps.asynqInspector = asynq.NewInspector(bootstrap.AsynqRedis(cfg))
	tasks := workers.NewTaskQueue(deps.asynqClient, logger)

	products := db.NewProductRepository(deps.database, logger)
	packages := db.NewPackageRepository(deps.database, logger)
	orders := db.NewOrderRepository(deps.database, logger)
	suppliers := db.NewSupplierRepository(deps.database, logger)
	loads := db.NewLoadRepository(deps.database, logger)
	dashboard := db.NewDashboardRepository(deps.database, logger)
	users := db.NewUserRepository(deps.database, logger)
	cartStore := db.NewCartStore(deps.database, logger)

	catalogService := services.NewCatalogService(products, cache, logger)
	stockService := services.NewStockService(packages, clock, logger)
	cartService := services.NewCartService(cartStore, orders, cache, clock, logger)
	supplierService := services.NewSupplierService(suppliers, loads, cache, logger)
	salesService := services.NewSalesService(orders, dashboard, cache, clock, logger)
	deps.auth = services.NewAuthService(users, cache, services.AuthConfig{
		Secret:     []byte(cfg.Security.JWTSecret),
		TokenTTL:   cfg.Security.JWTExpiration,
		BcryptCost: cfg.Security.BcryptCost,
	}, clock, logger)

	v := handlers.NewValidator()
	excelMax := bootstrap.MB(cfg.FileProcessing.ExcelMaxSizeMB)
	pdfMax := bootstrap.MB(cfg.FileProcessing.PDFMaxSizeMB)

	deps.handlers = handlers.Handlers{
		Auth:      handlers.NewAuthHandler(deps.auth, v, logger),
		Products:  handlers.NewProductHandler(catalogService, fileStorage, tasks, v, excelMax, logger),
		Stock:     handlers.NewStockHandler(stockService, v, loc, logger),
		Cart:      handlers.NewCartHandler(cartService, salesService, v, logger),
		Suppliers: handlers.NewSupplierHandler(supplierService, fileStorage, tasks, v, pdfMax, loc, logger),
		Dashboard: handlers.NewDashboardHandler(salesService, tasks, logger),
		Export:    handlers.NewExportHandler(salesService, tasks, v, loc, logger),
		Health: handlers.NewHealthHandler(
			deps.database,
			cache,
			fileStorage,
			deps.asynqInspector,
			cfg.App,
			logger,
		),
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	router := handlers.NewRouter(deps.handlers, deps.auth, handlers.RouterConfig{
		RequestIDHeader:   cfg.Security.RequestIDHeader,
		AllowedOrigins:    cfg.Security.AllowedOrigins,
		SecureHeaders:     cfg.Security.SecureHeaders,
		RateLimitRequests: cfg.Security.RateLimitRequests,
		RateLimitDuration: cfg.Security.RateLimitDuration,
		RequestTimeout:    cfg.Server.RequestTimeout,
	}, logger)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
