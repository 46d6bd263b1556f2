// internal/core/ports/repositories.go
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pos-inventory/internal/core/domain"
)

// ProductRepository persists the product catalog
type ProductRepository interface {
	Create(ctx context.Context, product *domain.ProductType) error
	CreateBatch(ctx context.Context, products []domain.ProductType) (int, error)
	Update(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.ProductType, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.ProductType, error)
	Search(ctx context.Context, search string, page, perPage int) ([]domain.ProductType, int, error)
}

// PackageRepository persists stock intake
type PackageRepository interface {
	// Receive inserts the package or adds the intake amount to an existing one.
	// created is true when the bar code was new.
	Receive(ctx context.Context, intake domain.PackageIntake) (pkg *domain.Package, created bool, err error)
	FindByBarcode(ctx context.Context, barCode string) (*domain.Package, error)
}

// SupplierRepository persists suppliers
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	FindByID(ctx context.Context, id int64) (*domain.Supplier, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*domain.Supplier, error)
	List(ctx context.Context, search string, limit int) ([]domain.Supplier, error)
}

// LoadRepository persists billing tickets
type LoadRepository interface {
	Create(ctx context.Context, load *domain.Load) error
	List(ctx context.Context, page, perPage int) ([]domain.Load, int, error)
}

// OrderRepository serves read models of orders
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	CartLines(ctx context.Context, orderID int64) ([]domain.CartLine, error)
	List(ctx context.Context, page, perPage int) ([]domain.OrderSummary, int, error)
	Between(ctx context.Context, from, to time.Time) ([]domain.OrderSummary, error)
}

// DashboardRepository aggregates sales and payables
type DashboardRepository interface {
	MonthlySales(ctx context.Context, from time.Time, loc *time.Location) ([]domain.MonthlySales, error)
	IncomeBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	DebtBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// UserRepository persists operators
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
