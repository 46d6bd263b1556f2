// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pos-inventory/internal/adapters/db"
	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/pkg/config"
	"github.com/ammerola/pos-inventory/migrations"
)

// Bar codes and CNPJs with valid check digits
const (
	TestBarCode   = "4006381333931"
	TestBarCode2  = "7891000315507"
	TestBarCode3  = "7891000315590"
	TestCNPJ      = "11222333000181"
	TestCNPJ2     = "33000167000101"
	TestTimeZone  = "America/Bahia"
	TestJWTSecret = "test-secret-with-at-least-32-characters!"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestLocation returns the shop time zone used by tests
func TestLocation(t testing.TB) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(TestTimeZone)
	require.NoError(t, err)
	return loc
}

// FixedClock returns a clock that always reports at
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t testing.TB) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_pos",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_pos",
		SSLMode:            "disable",
		MaxConnections:     10,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		StatementCacheMode: "describe",
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		Source:     migrations.FS,
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates an in-memory Redis instance for testing
func SetupTestRedis(t testing.TB) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		db.Close()
	})

	return mock, db
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-pos",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Shop: config.ShopConfig{
			TimeZone: TestTimeZone,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_pos",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:      "localhost",
			Port:      "6379",
			DB:        0,
			Namespace: "test",
			TTL:       time.Hour,
			PoolSize:  10,
		},
		Asynq: config.AsynqConfig{
			Concurrency: 2,
			Queues:      map[string]int{"default": 1},
		},
		FileProcessing: config.FileProcessingConfig{
			PDFMaxSizeMB:      50,
			ExcelMaxSizeMB:    100,
			ProcessingTimeout: 5 * time.Minute,
			TempDir:           os.TempDir(),
			TempFileMaxAge:    24 * time.Hour,
		},
		Security: config.SecurityConfig{
			JWTSecret:         TestJWTSecret,
			JWTExpiration:     12 * time.Hour,
			BcryptCost:        10,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"http://localhost:3000"},
			SecureHeaders:     false,
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
	}
}

// CreateTestProduct creates a test product type
func CreateTestProduct(overrides ...func(*domain.ProductType)) *domain.ProductType {
	product := &domain.ProductType{
		Title: "Arroz Tipo 1 5kg",
		Price: decimal.RequireFromString("24.90"),
	}
	for _, override := range overrides {
		override(product)
	}
	return product
}

// CreateTestIntake creates a package intake valid for a month from now
func CreateTestIntake(productID int64, overrides ...func(*domain.PackageIntake)) domain.PackageIntake {
	intake := domain.PackageIntake{
		BarCode:       TestBarCode,
		ProductTypeID: productID,
		Amount:        10,
		Validity:      time.Now().AddDate(0, 1, 0),
	}
	for _, override := range overrides {
		override(&intake)
	}
	return intake
}

// CreateTestSupplier creates a test supplier
func CreateTestSupplier(overrides ...func(*domain.Supplier)) *domain.Supplier {
	supplier := &domain.Supplier{
		Name: "Distribuidora Bahia",
		CNPJ: TestCNPJ,
	}
	for _, override := range overrides {
		override(supplier)
	}
	return supplier
}

// CreateTestLoad creates a billing ticket for supplierID
func CreateTestLoad(supplierID int64, overrides ...func(*domain.Load)) *domain.Load {
	load := &domain.Load{
		SupplierID:   supplierID,
		PurchaseCost: decimal.RequireFromString("1250.00"),
		DueDate:      time.Now().AddDate(0, 0, 15).Truncate(24 * time.Hour),
	}
	for _, override := range overrides {
		override(load)
	}
	return load
}

// SeedPackage stores a product type and a package of purchased units, returning both
func SeedPackage(t testing.TB, pool *pgxpool.Pool, barCode string, price string, purchased int) (productID, packageID int64) {
	t.Helper()

	ctx := context.Background()
	err := pool.QueryRow(ctx,
		`INSERT INTO types_of_product (title, price) VALUES ($1, $2) RETURNING type_of_product_id`,
		"Produto "+barCode, decimal.RequireFromString(price)).Scan(&productID)
	require.NoError(t, err, "Failed to seed product")

	err = pool.QueryRow(ctx, `
		INSERT INTO packages (bar_code, type_of_product, number_of_items_purchased, validity)
		VALUES ($1, $2, $3, $4) RETURNING package_id`,
		barCode, productID, purchased, time.Now().AddDate(0, 6, 0)).Scan(&packageID)
	require.NoError(t, err, "Failed to seed package")

	return productID, packageID
}

// SoldUnits reads the sold counter of a package
func SoldUnits(t testing.TB, pool *pgxpool.Pool, packageID int64) int {
	t.Helper()

	var sold int
	err := pool.QueryRow(context.Background(),
		`SELECT number_of_items_sold FROM packages WHERE package_id = $1`, packageID).Scan(&sold)
	require.NoError(t, err)
	return sold
}

// CountRows counts the rows of table
func CountRows(t testing.TB, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	require.NoError(t, err)
	return n
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t testing.TB, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		TRUNCATE TABLE order_items, orders, packages, types_of_product, loads, suppliers, users
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to truncate tables")
}
