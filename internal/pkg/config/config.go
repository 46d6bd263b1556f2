// internal/pkg/config/config.go
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequiredConfig is returned when a required setting is empty
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Config holds all application configuration
type Config struct {
	App            AppConfig
	Shop           ShopConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Asynq          AsynqConfig
	AWS            AWSConfig
	FileProcessing FileProcessingConfig
	Security       SecurityConfig
	Server         ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production, test
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// ShopConfig holds settings of the store itself
type ShopConfig struct {
	// TimeZone names the IANA zone used for order dates and month boundaries
	TimeZone string `required:"true"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string `required:"true"`
	Port               string `required:"true"`
	User               string
	Password           string
	Name               string `required:"true"`
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	StatementCacheMode string
	EnableQueryLogging bool
	MigrateOnStart     bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	Namespace       string
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	MaxConnAge      time.Duration
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	TTL             time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
	// Cron specs for periodic tasks, in the shop time zone
	CleanupSchedule   string
	DashboardSchedule string
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	// SecretName is read from Secrets Manager when SecretsProvider is "aws"
	SecretsProvider string
	SecretName      string
}

// FileProcessingConfig holds file processing configuration
type FileProcessingConfig struct {
	PDFMaxSizeMB      int
	ExcelMaxSizeMB    int
	ProcessingTimeout time.Duration
	TempDir           string
	TempFileMaxAge    time.Duration
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	JWTSecret         string
	JWTExpiration     time.Duration
	BcryptCost        int
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string `required:"true"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	TLSEnabled      bool
	TLSCertFile     string
	TLSKeyFile      string
}

// Load reads configuration from the environment, a .env file in
// development and, when configured, AWS Secrets Manager.
func Load(logger *slog.Logger) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	env := v.GetString("APP_ENV")
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	cfg := fromViper(v)

	if cfg.AWS.SecretsProvider == "aws" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sm, err := NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.AWS.SecretName, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create secrets manager: %w", err)
		}
		if err := ApplySecrets(ctx, cfg, sm); err != nil {
			return nil, fmt.Errorf("failed to apply secrets: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	env := v.GetString("APP_ENV")
	dev := env == "development" || env == "local"

	return &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: env,
			Version:     v.GetString("APP_VERSION"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			LogFormat:   v.GetString("LOG_FORMAT"),
			Debug:       v.GetBool("APP_DEBUG") || dev,
		},
		Shop: ShopConfig{
			TimeZone: v.GetString("SHOP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSL_MODE"),
			MaxConnections:     v.GetInt32("DB_MAX_CONNECTIONS"),
			MinConnections:     v.GetInt32("DB_MIN_CONNECTIONS"),
			MaxConnLifetime:    v.GetDuration("DB_CONNECTION_LIFETIME"),
			MaxConnIdleTime:    v.GetDuration("DB_IDLE_TIME"),
			HealthCheckPeriod:  v.GetDuration("DB_HEALTH_CHECK_PERIOD"),
			ConnectTimeout:     v.GetDuration("DB_CONNECT_TIMEOUT"),
			StatementCacheMode: v.GetString("DB_STATEMENT_CACHE_MODE"),
			EnableQueryLogging: v.GetBool("DB_QUERY_LOGGING"),
			MigrateOnStart:     v.GetBool("DB_MIGRATE_ON_START"),
		},
		Redis: RedisConfig{
			Host:            v.GetString("REDIS_HOST"),
			Port:            v.GetString("REDIS_PORT"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			Namespace:       v.GetString("REDIS_NAMESPACE"),
			MaxRetries:      v.GetInt("REDIS_MAX_RETRIES"),
			MinRetryBackoff: v.GetDuration("REDIS_MIN_RETRY_BACKOFF"),
			MaxRetryBackoff: v.GetDuration("REDIS_MAX_RETRY_BACKOFF"),
			DialTimeout:     v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:     v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:        v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns:    v.GetInt("REDIS_MIN_IDLE_CONNS"),
			MaxConnAge:      v.GetDuration("REDIS_MAX_CONN_AGE"),
			PoolTimeout:     v.GetDuration("REDIS_POOL_TIMEOUT"),
			IdleTimeout:     v.GetDuration("REDIS_IDLE_TIMEOUT"),
			TTL:             v.GetDuration("REDIS_TTL"),
		},
		Asynq: AsynqConfig{
			RedisAddr:         fmt.Sprintf("%s:%s", v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
			RedisPassword:     v.GetString("REDIS_PASSWORD"),
			RedisDB:           v.GetInt("ASYNQ_REDIS_DB"),
			Concurrency:       v.GetInt("ASYNQ_CONCURRENCY"),
			Queues:            parseQueues(v.GetString("ASYNQ_QUEUES")),
			StrictPriority:    v.GetBool("ASYNQ_STRICT_PRIORITY"),
			RetryMax:          v.GetInt("ASYNQ_RETRY_MAX"),
			ShutdownTimeout:   v.GetDuration("ASYNQ_SHUTDOWN_TIMEOUT"),
			CleanupSchedule:   v.GetString("ASYNQ_CLEANUP_SCHEDULE"),
			DashboardSchedule: v.GetString("ASYNQ_DASHBOARD_SCHEDULE"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			S3Bucket:        v.GetString("AWS_S3_BUCKET"),
			S3Endpoint:      v.GetString("AWS_S3_ENDPOINT"),
			UsePathStyle:    v.GetBool("AWS_S3_PATH_STYLE") || dev,
			SecretsProvider: v.GetString("SECRETS_PROVIDER"),
			SecretName:      v.GetString("AWS_SECRET_NAME"),
		},
		FileProcessing: FileProcessingConfig{
			PDFMaxSizeMB:      v.GetInt("PDF_MAX_SIZE_MB"),
			ExcelMaxSizeMB:    v.GetInt("EXCEL_MAX_SIZE_MB"),
			ProcessingTimeout: v.GetDuration("PROCESSING_TIMEOUT"),
			TempDir:           v.GetString("TEMP_DIR"),
			TempFileMaxAge:    v.GetDuration("TEMP_FILE_MAX_AGE"),
		},
		Security: SecurityConfig{
			JWTSecret:         v.GetString("JWT_SECRET"),
			JWTExpiration:     v.GetDuration("JWT_EXPIRATION"),
			BcryptCost:        v.GetInt("BCRYPT_COST"),
			RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitDuration: v.GetDuration("RATE_LIMIT_DURATION"),
			AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
			SecureHeaders:     v.GetBool("SECURE_HEADERS") || env == "production",
			RequestIDHeader:   v.GetString("REQUEST_ID_HEADER"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			RequestTimeout:  v.GetDuration("SERVER_REQUEST_TIMEOUT"),
			MaxHeaderBytes:  v.GetInt("SERVER_MAX_HEADER_BYTES"),
			GracefulTimeout: v.GetDuration("SERVER_GRACEFUL_TIMEOUT"),
			TLSEnabled:      v.GetBool("TLS_ENABLED"),
			TLSCertFile:     v.GetString("TLS_CERT_FILE"),
			TLSKeyFile:      v.GetString("TLS_KEY_FILE"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"APP_ENV":     "development",
		"APP_NAME":    "pos-inventory",
		"APP_VERSION": "dev",
		"LOG_LEVEL":   "debug",
		"LOG_FORMAT":  "json",

		"SHOP_TIMEZONE": "America/Bahia",

		"DB_HOST":                 "localhost",
		"DB_PORT":                 "5432",
		"DB_USER":                 "pos",
		"DB_PASSWORD":             "pos_dev",
		"DB_NAME":                 "pos_inventory",
		"DB_SSL_MODE":             "disable",
		"DB_MAX_CONNECTIONS":      25,
		"DB_MIN_CONNECTIONS":      5,
		"DB_CONNECTION_LIFETIME":  time.Hour,
		"DB_IDLE_TIME":            30 * time.Minute,
		"DB_HEALTH_CHECK_PERIOD":  time.Minute,
		"DB_CONNECT_TIMEOUT":      10 * time.Second,
		"DB_STATEMENT_CACHE_MODE": "describe",
		"DB_QUERY_LOGGING":        false,
		"DB_MIGRATE_ON_START":     true,

		"REDIS_HOST":              "localhost",
		"REDIS_PORT":              "6379",
		"REDIS_PASSWORD":          "",
		"REDIS_DB":                0,
		"REDIS_NAMESPACE":         "pos",
		"REDIS_MAX_RETRIES":       3,
		"REDIS_MIN_RETRY_BACKOFF": 8 * time.Millisecond,
		"REDIS_MAX_RETRY_BACKOFF": 512 * time.Millisecond,
		"REDIS_DIAL_TIMEOUT":      5 * time.Second,
		"REDIS_READ_TIMEOUT":      3 * time.Second,
		"REDIS_WRITE_TIMEOUT":     3 * time.Second,
		"REDIS_POOL_SIZE":         10,
		"REDIS_MIN_IDLE_CONNS":    2,
		"REDIS_MAX_CONN_AGE":      0,
		"REDIS_POOL_TIMEOUT":      4 * time.Second,
		"REDIS_IDLE_TIMEOUT":      5 * time.Minute,
		"REDIS_TTL":               time.Hour,

		"ASYNQ_REDIS_DB":           0,
		"ASYNQ_CONCURRENCY":        10,
		"ASYNQ_QUEUES":             "critical:6,default:3,low:1",
		"ASYNQ_STRICT_PRIORITY":    false,
		"ASYNQ_RETRY_MAX":          3,
		"ASYNQ_SHUTDOWN_TIMEOUT":   30 * time.Second,
		"ASYNQ_CLEANUP_SCHEDULE":   "0 3 * * *",
		"ASYNQ_DASHBOARD_SCHEDULE": "*/5 * * * *",

		"AWS_REGION":            "us-east-1",
		"AWS_ACCESS_KEY_ID":     "minioadmin",
		"AWS_SECRET_ACCESS_KEY": "minioadmin123",
		"AWS_S3_BUCKET":         "pos-reports",
		"AWS_S3_ENDPOINT":       "",
		"AWS_S3_PATH_STYLE":     false,
		"SECRETS_PROVIDER":      "env",
		"AWS_SECRET_NAME":       "pos-inventory/production",

		"PDF_MAX_SIZE_MB":    20,
		"EXCEL_MAX_SIZE_MB":  20,
		"PROCESSING_TIMEOUT": 5 * time.Minute,
		"TEMP_DIR":           "/tmp",
		"TEMP_FILE_MAX_AGE":  24 * time.Hour,

		"JWT_SECRET":          "development-secret-change-in-production",
		"JWT_EXPIRATION":      12 * time.Hour,
		"BCRYPT_COST":         10,
		"RATE_LIMIT_REQUESTS": 100,
		"RATE_LIMIT_DURATION": time.Minute,
		"ALLOWED_ORIGINS":     "*",
		"SECURE_HEADERS":      false,
		"REQUEST_ID_HEADER":   "X-Request-ID",

		"SERVER_HOST":             "0.0.0.0",
		"SERVER_PORT":             "8080",
		"SERVER_READ_TIMEOUT":     15 * time.Second,
		"SERVER_WRITE_TIMEOUT":    15 * time.Second,
		"SERVER_IDLE_TIMEOUT":     60 * time.Second,
		"SERVER_REQUEST_TIMEOUT":  10 * time.Second,
		"SERVER_MAX_HEADER_BYTES": 1 << 20,
		"SERVER_GRACEFUL_TIMEOUT": 30 * time.Second,
		"TLS_ENABLED":             false,
		"TLS_CERT_FILE":           "",
		"TLS_KEY_FILE":            "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Validate runs the basic validator, plus the strict ones in production
func (c *Config) Validate() error {
	validators := []Validator{&BasicValidator{}}
	if c.IsProduction() {
		validators = append(validators, &ProductionValidator{}, &SecurityValidator{})
	}
	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// Location loads the shop time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Shop.TimeZone == "Local" {
		return nil, fmt.Errorf("invalid shop time zone %q: an IANA name is required", c.Shop.TimeZone)
	}
	loc, err := time.LoadLocation(c.Shop.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid shop time zone %q: %w", c.Shop.TimeZone, err)
	}
	return loc, nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddress returns host:port of the Redis server
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range splitList(queuesStr) {
		name, weight, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		priority, err := strconv.Atoi(strings.TrimSpace(weight))
		if err == nil && priority > 0 {
			queues[strings.TrimSpace(name)] = priority
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
