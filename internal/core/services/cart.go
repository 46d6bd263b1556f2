// internal/core/services/cart.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// CartService implements the stock/order consistency protocol.
// Every operation runs in a single CartStore transaction, so the sold counter
// of a package and the order items referencing it always change together.
type CartService struct {
	store  ports.CartStore
	orders ports.OrderRepository
	cache  ports.CacheRepository
	now    Clock
	logger *slog.Logger
}

var _ ports.CartService = (*CartService)(nil)

// NewCartService creates a new cart service
func NewCartService(store ports.CartStore, orders ports.OrderRepository, cache ports.CacheRepository, now Clock, logger *slog.Logger) *CartService {
	if now == nil {
		now = NewClock(nil)
	}
	return &CartService{
		store:  store,
		orders: orders,
		cache:  cache,
		now:    now,
		logger: logger.With(slog.String("service", "cart")),
	}
}

// AddItemToCart reserves req.Amount units of the package with req.BarCode and
// records them on the order, creating the order when req.OrderID is zero.
func (s *CartService) AddItemToCart(ctx context.Context, req domain.AddItemRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	orderID := req.OrderID
	// Rows are locked order first, then order item, then package, in every cart operation.
	err := s.store.WithTx(ctx, func(ctx context.Context, tx ports.CartTx) error {
		if orderID != 0 {
			exists, err := tx.LockOrder(ctx, orderID)
			if err != nil {
				return err
			}
			if !exists {
				return domain.NotFoundf("order %d", orderID)
			}
		}

		pkg, err := tx.PackageByBarcode(ctx, req.BarCode)
		if err != nil {
			return err
		}
		if pkg == nil {
			return domain.OutOfStockf("no package with bar code %s", req.BarCode)
		}

		var item *domain.OrderItem
		if orderID != 0 {
			item, err = tx.OrderItemForUpdate(ctx, orderID, pkg.ID)
			if err != nil {
				return err
			}
		}

		reserved, err := tx.ReserveStock(ctx, pkg.ID, req.Amount)
		if err != nil {
			return err
		}
		if !reserved {
			return domain.OutOfStockf("package %d cannot supply %d units", pkg.ID, req.Amount)
		}

		if orderID == 0 {
			orderID, err = tx.CreateOrder(ctx, s.now())
			if err != nil {
				return err
			}
		}

		if item != nil {
			return tx.IncrementOrderItem(ctx, orderID, pkg.ID, req.Amount)
		}

		price, err := tx.CurrentPrice(ctx, pkg.ProductTypeID)
		if err != nil {
			return err
		}
		return tx.InsertOrderItem(ctx, domain.OrderItem{
			OrderID:   orderID,
			PackageID: pkg.ID,
			Amount:    req.Amount,
			Price:     price,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add item to cart: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, CacheKeyDashboard)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.Int64("order_id", orderID),
		slog.String("bar_code", req.BarCode),
		slog.Int("amount", req.Amount))

	return orderID, nil
}

// RemoveItemFromCart returns the item's units to stock and deletes the item.
// The order is deleted too when it has no items left.
func (s *CartService) RemoveItemFromCart(ctx context.Context, orderID, packageID int64) (bool, error) {
	if orderID < 1 {
		return false, domain.NewInvalidInput("order_id", "must be positive")
	}
	if packageID < 1 {
		return false, domain.NewInvalidInput("package_id", "must be positive")
	}

	var orderDeleted bool
	err := s.store.WithTx(ctx, func(ctx context.Context, tx ports.CartTx) error {
		exists, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFoundf("order %d", orderID)
		}

		item, err := tx.OrderItemForUpdate(ctx, orderID, packageID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFoundf("package %d in order %d", packageID, orderID)
		}

		if err := s.release(ctx, tx, *item); err != nil {
			return err
		}
		if err := tx.DeleteOrderItem(ctx, orderID, packageID); err != nil {
			return err
		}

		orderDeleted, err = tx.DeleteOrderIfEmpty(ctx, orderID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove item from cart: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, CacheKeyDashboard)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.Int64("order_id", orderID),
		slog.Int64("package_id", packageID),
		slog.Bool("order_deleted", orderDeleted))

	return orderDeleted, nil
}

// AbandonCart returns every item of the order to stock and deletes the order
func (s *CartService) AbandonCart(ctx context.Context, orderID int64) error {
	if orderID < 1 {
		return domain.NewInvalidInput("order_id", "must be positive")
	}

	var released int
	err := s.store.WithTx(ctx, func(ctx context.Context, tx ports.CartTx) error {
		exists, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFoundf("order %d", orderID)
		}

		items, err := tx.OrderItemsForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		// Items come sorted by package, so packages are locked in id order.
		for _, item := range items {
			if err := s.release(ctx, tx, item); err != nil {
				return err
			}
			released += item.Amount
		}

		if err := tx.DeleteOrderItems(ctx, orderID); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		return fmt.Errorf("failed to abandon cart: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, CacheKeyDashboard)

	s.logger.InfoContext(ctx, "cart abandoned",
		slog.Int64("order_id", orderID),
		slog.Int("units_released", released))

	return nil
}

// GetCart returns the order with its lines and grand total
func (s *CartService) GetCart(ctx context.Context, orderID int64) (*domain.Cart, error) {
	if orderID < 1 {
		return nil, domain.NewInvalidInput("order_id", "must be positive")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, domain.NotFoundf("order %d", orderID)
	}

	lines, err := s.orders.CartLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
	}

	return domain.NewCart(*order, lines), nil
}

func (s *CartService) release(ctx context.Context, tx ports.CartTx, item domain.OrderItem) error {
	ok, err := tx.ReleaseStock(ctx, item.PackageID, item.Amount)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewStorageError("release stock",
			fmt.Errorf("package %d has fewer than %d units sold", item.PackageID, item.Amount))
	}
	return nil
}
