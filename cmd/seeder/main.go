package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pos-inventory/internal/adapters/db"
	redis_a "github.com/ammerola/pos-inventory/internal/adapters/redis_adapter"
	"github.com/ammerola/pos-inventory/internal/adapters/spreadsheet"
	"github.com/ammerola/pos-inventory/internal/bootstrap"
	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/core/services"
	"github.com/ammerola/pos-inventory/internal/pkg/config"
	"github.com/ammerola/pos-inventory/internal/pkg/logger"
)

// sampleSuppliers are registered by -samples
var sampleSuppliers = []domain.Supplier{
	{Name: "Distribuidora Bahia", CNPJ: "11.222.333/0001-81"},
	{Name: "Atacado Recôncavo", CNPJ: "11.444.777/0001-61"},
	{Name: "Laticínios do Vale", CNPJ: "45.997.418/0001-53"},
}

// sampleProducts are imported by -samples when no catalog file is given
var sampleProducts = []domain.ProductType{
	{Title: "Arroz Branco 5kg", Price: decimal.RequireFromString("27.90")},
	{Title: "Feijão Carioca 1kg", Price: decimal.RequireFromString("8.49")},
	{Title: "Café Torrado 500g", Price: decimal.RequireFromString("18.90")},
	{Title: "Leite Integral 1L", Price: decimal.RequireFromString("5.79")},
	{Title: "Açúcar Cristal 1kg", Price: decimal.RequireFromString("4.99")},
}

// sampleBarCode builds a valid EAN-13 under the Brazilian 789 prefix
func sampleBarCode(n int64) string {
	prefix := fmt.Sprintf("789%09d", n%1_000_000_000)
	return fmt.Sprintf("%s%d", prefix, domain.EAN13CheckDigit(prefix))
}

// seeder writes seed data through the services so every rule applies
type seeder struct {
	auth      ports.AuthService
	catalog   ports.CatalogService
	stock     ports.StockService
	suppliers ports.SupplierService
	now       services.Clock
	logger    *slog.Logger
}

func (s *seeder) seedAdmin(ctx context.Context, email, name, password string) error {
	user, err := s.auth.Register(ctx, email, name, password)
	if errors.Is(err, domain.ErrConflict) {
		s.logger.InfoContext(ctx, "admin user already exists", slog.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}
	s.logger.InfoContext(ctx, "admin user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email))
	return nil
}

func (s *seeder) seedCatalog(ctx context.Context, products []domain.ProductType) (int, error) {
	n, err := s.catalog.ImportProducts(ctx, products)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "catalog seeded",
		slog.Int("imported", n),
		slog.Int("rows", len(products)))
	return n, nil
}

// seedSamples registers suppliers with one load each and a package per
// product on the first catalog page
func (s *seeder) seedSamples(ctx context.Context, unitsPerPackage int) error {
	today := s.now()

	for i := range sampleSuppliers {
		supplier := sampleSuppliers[i]
		if err := s.suppliers.CreateSupplier(ctx, &supplier); err != nil {
			if !errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("failed to create supplier %s: %w", supplier.Name, err)
			}
			existing, err := s.suppliers.FindSupplierByCNPJ(ctx, supplier.CNPJ)
			if err != nil {
				return fmt.Errorf("failed to find supplier %s: %w", supplier.Name, err)
			}
			supplier = *existing
		}

		load := &domain.Load{
			SupplierID:   supplier.ID,
			PurchaseCost: decimal.NewFromInt(int64(500 * (i + 1))),
			DueDate:      today.AddDate(0, 0, 15*(i+1)),
		}
		if err := s.suppliers.CreateLoad(ctx, load); err != nil {
			return fmt.Errorf("failed to create load for %s: %w", supplier.Name, err)
		}
	}

	page, err := s.catalog.ListProducts(ctx, "", 1)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range page.Items {
		pkg, created, err := s.stock.ReceivePackage(ctx, domain.PackageIntake{
			BarCode:       sampleBarCode(p.ID),
			ProductTypeID: p.ID,
			Amount:        unitsPerPackage,
			Validity:      today.AddDate(0, 6, 0),
		})
		if err != nil {
			return fmt.Errorf("failed to receive package for %s: %w", p.Title, err)
		}
		s.logger.InfoContext(ctx, "package received",
			slog.String("bar_code", pkg.BarCode),
			slog.Bool("created", created),
			slog.Int("available", pkg.Available()))
	}

	return nil
}

func readCatalog(path string) ([]domain.ProductType, []spreadsheet.RowError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return spreadsheet.ReadProducts(data)
}

func main() {
	var (
		catalogFile   = flag.String("catalog", "", "Excel workbook with product titles and prices")
		adminEmail    = flag.String("admin-email", "", "Email of the operator account to create")
		adminName     = flag.String("admin-name", "Administrador", "Name of the operator account")
		samples       = flag.Bool("samples", false, "Create sample suppliers, loads and packages")
		units         = flag.Int("units", 24, "Units per sample package")
		dryRun        = flag.Bool("dry-run", false, "Parse inputs without touching the database")
		adminPassword = os.Getenv("SEED_ADMIN_PASSWORD")
	)
	flag.Parse()

	slogger := logger.SetupLogger("info", "json")

	var products []domain.ProductType
	if *catalogFile != "" {
		parsed, skipped, err := readCatalog(*catalogFile)
		if err != nil {
			slogger.Error("failed to load catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, row := range skipped {
			slogger.Warn("skipping catalog row",
				slog.Int("row", row.Row),
				slog.String("reason", row.Reason))
		}
		products = parsed
	} else if *samples {
		products = sampleProducts
	}

	if *dryRun {
		fmt.Printf("%d products would be imported\n", len(products))
		for _, p := range products {
			fmt.Printf("  - %s: R$ %s\n", p.Title, p.Price.StringFixed(2))
		}
		if *samples {
			fmt.Printf("%d sample suppliers would be created\n", len(sampleSuppliers))
		}
		fmt.Println("[DRY RUN] No changes were made to the database")
		return
	}

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		slogger.Error("failed to load time zone", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clock := services.NewClock(loc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	database, err := bootstrap.OpenDatabase(ctx, cfg, 2, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	// seeding without Redis works but the API may serve a stale catalog until the TTL passes
	var cache ports.CacheRepository
	if client, err := bootstrap.OpenRedis(ctx, cfg, slogger); err != nil {
		slogger.Warn("redis unavailable, cached catalog pages will not be invalidated",
			slog.String("error", err.Error()))
	} else {
		defer client.Close()
		cache = redis_a.NewCache(client, cfg.Redis.Namespace, cfg.Redis.TTL, slogger)
	}

	s := &seeder{
		auth: services.NewAuthService(db.NewUserRepository(database, slogger), cache, services.AuthConfig{
			Secret:     []byte(cfg.Security.JWTSecret),
			TokenTTL:   cfg.Security.JWTExpiration,
			BcryptCost: cfg.Security.BcryptCost,
		}, clock, slogger),
		catalog:   services.NewCatalogService(db.NewProductRepository(database, slogger), cache, slogger),
		stock:     services.NewStockService(db.NewPackageRepository(database, slogger), clock, slogger),
		suppliers: services.NewSupplierService(db.NewSupplierRepository(database, slogger), db.NewLoadRepository(database, slogger), cache, slogger),
		now:       clock,
		logger:    slogger.With(slog.String("component", "seeder")),
	}

	if *adminEmail != "" {
		if strings.TrimSpace(adminPassword) == "" {
			slogger.Error("SEED_ADMIN_PASSWORD must be set to create the admin user")
			os.Exit(1)
		}
		if err := s.seedAdmin(ctx, *adminEmail, *adminName, adminPassword); err != nil {
			slogger.Error("failed to seed admin", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if len(products) > 0 {
		if _, err := s.seedCatalog(ctx, products); err != nil {
			slogger.Error("failed to seed catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if *samples {
		if err := s.seedSamples(ctx, *units); err != nil {
			slogger.Error("failed to seed samples", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slogger.Info("seed operation completed")
}
