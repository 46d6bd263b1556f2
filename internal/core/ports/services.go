// internal/core/ports/services.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/pos-inventory/internal/core/domain"
)

// CartService moves stock between the shelf and open orders.
// Each operation is atomic: on error nothing has changed.
type CartService interface {
	// AddItemToCart returns the order the item was added to, created when req.OrderID is zero
	AddItemToCart(ctx context.Context, req domain.AddItemRequest) (int64, error)
	// RemoveItemFromCart reports whether the order was deleted because it became empty
	RemoveItemFromCart(ctx context.Context, orderID, packageID int64) (bool, error)
	AbandonCart(ctx context.Context, orderID int64) error
	GetCart(ctx context.Context, orderID int64) (*domain.Cart, error)
}

// StockService records package intake
type StockService interface {
	ReceivePackage(ctx context.Context, intake domain.PackageIntake) (*domain.Package, bool, error)
	GetPackage(ctx context.Context, barCode string) (*domain.Package, error)
}

// CatalogService manages product types
type CatalogService interface {
	CreateProduct(ctx context.Context, product *domain.ProductType) error
	UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.ProductType, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.ProductType, error)
	ListProducts(ctx context.Context, search string, page int) (*domain.Page[domain.ProductType], error)
	ImportProducts(ctx context.Context, products []domain.ProductType) (int, error)
}

// SupplierService manages suppliers and their billing tickets
type SupplierService interface {
	CreateSupplier(ctx context.Context, supplier *domain.Supplier) error
	ListSuppliers(ctx context.Context, search string, limit int) ([]domain.Supplier, error)
	FindSupplierByCNPJ(ctx context.Context, cnpj string) (*domain.Supplier, error)
	CreateLoad(ctx context.Context, load *domain.Load) error
	ListLoads(ctx context.Context, page int) (*domain.Page[domain.Load], error)
}

// SalesService serves order history and the dashboard
type SalesService interface {
	ListOrders(ctx context.Context, page int) (*domain.Page[domain.OrderSummary], error)
	OrdersBetween(ctx context.Context, from, to time.Time) ([]domain.OrderSummary, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	RefreshDashboard(ctx context.Context) (*domain.Dashboard, error)
}

// AuthService authenticates operators
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	// Verify returns the user id carried by a valid token
	Verify(token string) (int64, error)
}
