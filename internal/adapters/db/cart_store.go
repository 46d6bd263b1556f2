// internal/adapters/db/cart_store.go
package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// CartStore runs cart mutations in READ COMMITTED transactions.
// Stock is reserved with a conditional UPDATE and order rows are locked with
// SELECT ... FOR UPDATE, so concurrent carts cannot oversell a package.
type CartStore struct {
	db     *Database
	logger *slog.Logger
}

var (
	_ ports.CartStore = (*CartStore)(nil)
	_ ports.CartTx    = (*cartTx)(nil)
)

// NewCartStore creates a new cart store
func NewCartStore(db *Database, logger *slog.Logger) *CartStore {
	return &CartStore{
		db:     db,
		logger: logger.With(slog.String("repository", "cart")),
	}
}

// WithTx executes fn inside one transaction
func (s *CartStore) WithTx(ctx context.Context, fn func(context.Context, ports.CartTx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	return s.db.TransactionWithOptions(ctx, opts, func(tx pgx.Tx) error {
		return fn(ctx, &cartTx{tx: tx})
	})
}

type cartTx struct {
	tx pgx.Tx
}

func (t *cartTx) PackageByBarcode(ctx context.Context, barCode string) (*domain.Package, error) {
	const query = `
		SELECT package_id, bar_code, type_of_product, number_of_items_purchased,
		       number_of_items_sold, validity
		FROM packages
		WHERE bar_code = $1`

	pkg, err := ScanOne(t.tx.QueryRow(ctx, query, barCode), scanPackage)
	if err != nil {
		return nil, mapError("find package", err)
	}
	return pkg, nil
}

func (t *cartTx) ReserveStock(ctx context.Context, packageID int64, n int) (bool, error) {
	const query = `
		UPDATE packages
		SET number_of_items_sold = number_of_items_sold + $2
		WHERE package_id = $1
		  AND number_of_items_purchased - number_of_items_sold >= $2`

	tag, err := t.tx.Exec(ctx, query, packageID, n)
	if err != nil {
		return false, mapError("reserve stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *cartTx) ReleaseStock(ctx context.Context, packageID int64, n int) (bool, error) {
	const query = `
		UPDATE packages
		SET number_of_items_sold = number_of_items_sold - $2
		WHERE package_id = $1
		  AND number_of_items_sold >= $2`

	tag, err := t.tx.Exec(ctx, query, packageID, n)
	if err != nil {
		return false, mapError("release stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *cartTx) CreateOrder(ctx context.Context, at time.Time) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO orders (order_date) VALUES ($1) RETURNING order_id`, at).Scan(&id)
	if err != nil {
		return 0, mapError("create order", err)
	}
	return id, nil
}

func (t *cartTx) LockOrder(ctx context.Context, orderID int64) (bool, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`SELECT order_id FROM orders WHERE order_id = $1 FOR UPDATE`, orderID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapError("lock order", err)
	}
	return true, nil
}

func (t *cartTx) OrderItemForUpdate(ctx context.Context, orderID, packageID int64) (*domain.OrderItem, error) {
	const query = `
		SELECT "order", package, amount, price
		FROM order_items
		WHERE "order" = $1 AND package = $2
		FOR UPDATE`

	item, err := ScanOne(t.tx.QueryRow(ctx, query, orderID, packageID), scanOrderItem)
	if err != nil {
		return nil, mapError("lock order item", err)
	}
	return item, nil
}

func (t *cartTx) OrderItemsForUpdate(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	const query = `
		SELECT "order", package, amount, price
		FROM order_items
		WHERE "order" = $1
		ORDER BY package
		FOR UPDATE`

	rows, err := t.tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, mapError("lock order items", err)
	}
	items, err := ScanMany(rows, func(r pgx.Rows) (domain.OrderItem, error) {
		item, err := scanOrderItem(r)
		if err != nil {
			return domain.OrderItem{}, err
		}
		return *item, nil
	})
	if err != nil {
		return nil, mapError("scan order items", err)
	}
	return items, nil
}

func (t *cartTx) IncrementOrderItem(ctx context.Context, orderID, packageID int64, n int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE order_items SET amount = amount + $3 WHERE "order" = $1 AND package = $2`,
		orderID, packageID, n)
	if err != nil {
		return mapError("increment order item", err)
	}
	if tag.RowsAffected() != 1 {
		return domain.NotFoundf("package %d in order %d", packageID, orderID)
	}
	return nil
}

func (t *cartTx) CurrentPrice(ctx context.Context, productTypeID int64) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := t.tx.QueryRow(ctx,
		`SELECT price FROM types_of_product WHERE type_of_product_id = $1`, productTypeID).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, domain.NotFoundf("product %d", productTypeID)
	}
	if err != nil {
		return decimal.Zero, mapError("read price", err)
	}
	return price, nil
}

func (t *cartTx) InsertOrderItem(ctx context.Context, item domain.OrderItem) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO order_items ("order", package, amount, price) VALUES ($1, $2, $3, $4)`,
		item.OrderID, item.PackageID, item.Amount, item.Price)
	if err != nil {
		return mapError("insert order item", err)
	}
	return nil
}

func (t *cartTx) DeleteOrderItem(ctx context.Context, orderID, packageID int64) error {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM order_items WHERE "order" = $1 AND package = $2`, orderID, packageID)
	if err != nil {
		return mapError("delete order item", err)
	}
	if tag.RowsAffected() != 1 {
		return domain.NotFoundf("package %d in order %d", packageID, orderID)
	}
	return nil
}

func (t *cartTx) DeleteOrderItems(ctx context.Context, orderID int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM order_items WHERE "order" = $1`, orderID); err != nil {
		return mapError("delete order items", err)
	}
	return nil
}

func (t *cartTx) DeleteOrder(ctx context.Context, orderID int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return mapError("delete order", err)
	}
	if tag.RowsAffected() != 1 {
		return domain.NotFoundf("order %d", orderID)
	}
	return nil
}

func (t *cartTx) DeleteOrderIfEmpty(ctx context.Context, orderID int64) (bool, error) {
	const query = `
		DELETE FROM orders o
		WHERE o.order_id = $1
		  AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi."order" = o.order_id)`

	tag, err := t.tx.Exec(ctx, query, orderID)
	if err != nil {
		return false, mapError("delete empty order", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanPackage(row pgx.Row) (*domain.Package, error) {
	var p domain.Package
	err := row.Scan(&p.ID, &p.BarCode, &p.ProductTypeID, &p.Purchased, &p.Sold, &p.Validity)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanOrderItem(row pgx.Row) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := row.Scan(&item.OrderID, &item.PackageID, &item.Amount, &item.Price); err != nil {
		return nil, err
	}
	return &item, nil
}
