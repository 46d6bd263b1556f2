// internal/bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pos-inventory/internal/adapters/db"
	"github.com/ammerola/pos-inventory/internal/adapters/storage"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/pkg/config"
)

// Storage is a FileStorage that can report its health
type Storage interface {
	ports.FileStorage
	Ping(ctx context.Context) error
}

// DatabaseConfig maps the application settings onto the pool settings.
// maxConns overrides the configured pool size when positive.
func DatabaseConfig(cfg *config.Config, maxConns int32) *db.Config {
	c := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
	if maxConns > 0 {
		c.MaxConnections = maxConns
		if c.MinConnections > maxConns {
			c.MinConnections = maxConns
		}
	}
	return c
}

// OpenDatabase connects to PostgreSQL and applies pending migrations when
// MigrateOnStart is set
func OpenDatabase(ctx context.Context, cfg *config.Config, maxConns int32, logger *slog.Logger) (*db.Database, error) {
	if cfg.Database.MigrateOnStart {
		logger.Info("running database migrations")
		if err := db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
			DatabaseURL: cfg.GetDatabaseURL(),
		}, logger, 3); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name))

	database, err := db.NewDatabase(ctx, DatabaseConfig(cfg, maxConns), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// OpenRedis connects the cache client and checks it answers
func OpenRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port))

	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddress(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// AsynqRedis returns the connection settings of the task broker
func AsynqRedis(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
}

// OpenStorage returns S3 storage when a bucket is configured and a local
// directory under the temp dir otherwise
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Storage, error) {
	if cfg.AWS.S3Bucket == "" {
		dir := filepath.Join(cfg.FileProcessing.TempDir, storage.LocalDirName)
		logger.Warn("no S3 bucket configured, storing files locally",
			slog.String("path", dir))
		local, err := storage.NewLocalStorage(dir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return local, nil
	}

	s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
	}
	return s3Storage, nil
}

// MB converts a size in megabytes to bytes
func MB(n int) int64 {
	return int64(n) << 20
}
