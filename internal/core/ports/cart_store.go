// internal/core/ports/cart_store.go
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pos-inventory/internal/core/domain"
)

// CartStore is the unit of work behind cart mutations.
// WithTx commits when fn returns nil and rolls back on any error or panic.
type CartStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx CartTx) error) error
}

// CartTx is the set of statements available inside a cart transaction
type CartTx interface {
	// PackageByBarcode returns nil when no package carries the code
	PackageByBarcode(ctx context.Context, barCode string) (*domain.Package, error)

	// ReserveStock adds n to the sold counter only if n units are available.
	// It reports false, without error, when stock is insufficient.
	ReserveStock(ctx context.Context, packageID int64, n int) (bool, error)

	// ReleaseStock subtracts n from the sold counter only if at least n were sold
	ReleaseStock(ctx context.Context, packageID int64, n int) (bool, error)

	CreateOrder(ctx context.Context, at time.Time) (int64, error)

	// LockOrder takes a row lock on the order and reports whether it exists
	LockOrder(ctx context.Context, orderID int64) (bool, error)

	// OrderItemForUpdate returns nil when the order has no item for the package
	OrderItemForUpdate(ctx context.Context, orderID, packageID int64) (*domain.OrderItem, error)
	OrderItemsForUpdate(ctx context.Context, orderID int64) ([]domain.OrderItem, error)

	IncrementOrderItem(ctx context.Context, orderID, packageID int64, n int) error
	CurrentPrice(ctx context.Context, productTypeID int64) (decimal.Decimal, error)
	InsertOrderItem(ctx context.Context, item domain.OrderItem) error

	DeleteOrderItem(ctx context.Context, orderID, packageID int64) error
	DeleteOrderItems(ctx context.Context, orderID int64) error
	DeleteOrder(ctx context.Context, orderID int64) error

	// DeleteOrderIfEmpty removes the order when no item references it and reports whether it did
	DeleteOrderIfEmpty(ctx context.Context, orderID int64) (bool, error)
}
