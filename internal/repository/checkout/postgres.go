package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"marketplace/internal/domain"
	orderrepo "marketplace/internal/repository/order"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// CreateOrder converts a cart into an order in one transaction:
// decrement-if-sufficient per product, order + line inserts, cart clear.
// The conditional decrement serializes concurrent checkouts at the product
// row, so two carts racing over the last unit cannot both succeed. Any
// failure rolls every step back.
func (r *postgresRepo) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, line := range in.Lines {
		if err := decrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	q := fmt.Sprintf(`
INSERT INTO orders (order_number, shopper_id, store_id, street, city, postal_code, country, phone, payment_method, customer_note, subtotal_cents, shipping_fee_cents, tax_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING %s
`, orderrepo.Columns())
	row := tx.QueryRow(ctx, q,
		in.OrderNumber, in.ShopperID, in.StoreID,
		in.DeliveryAddress.Street, in.DeliveryAddress.City, in.DeliveryAddress.PostalCode, in.DeliveryAddress.Country, in.DeliveryAddress.Phone,
		in.PaymentMethod, in.CustomerNote,
		in.SubtotalCents, in.ShippingFeeCents, in.TaxCents, in.TotalCents,
	)
	order, err := orderrepo.ScanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("checkout repo: insert order number=%s error=%v", in.OrderNumber, err)
		return nil, err
	}

	for _, line := range in.Lines {
		var ol domain.OrderLine
		err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, order_id::text, product_id::text, quantity, unit_price_cents, total_cents
`, order.ID, line.ProductID, line.Quantity, line.UnitPriceCents, line.TotalCents).Scan(
			&ol.ID, &ol.OrderID, &ol.ProductID, &ol.Quantity, &ol.UnitPriceCents, &ol.TotalCents,
		)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, ol)
	}

	if err := clearCart(ctx, tx, in.CartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("checkout repo: order created number=%s shopper_id=%s total_cents=%d", order.OrderNumber, order.ShopperID, order.TotalCents)
	return &order, nil
}

// CancelOrder flips the order to cancelled and restores stock in one
// transaction. The compare-and-swap on status means a second cancel finds
// zero rows and cannot restock twice.
func (r *postgresRepo) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	q := fmt.Sprintf(`
UPDATE orders
SET status = 'cancelled', updated_at = now()
WHERE id = $1 AND status IN ('pending', 'confirmed')
RETURNING %s
`, orderrepo.Columns())
	row := tx.QueryRow(ctx, q, orderID)
	order, err := orderrepo.ScanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
				return nil, err
			}
			if !exists {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, quantity, unit_price_cents, total_cents
FROM order_lines
WHERE order_id = $1
ORDER BY id
`, orderID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPriceCents, &line.TotalCents); err != nil {
			rows.Close()
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, line := range order.Lines {
		if _, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock + $2
WHERE id = $1
`, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("checkout repo: order cancelled number=%s", order.OrderNumber)
	return &order, nil
}

func decrementStock(ctx context.Context, tx pgx.Tx, productID string, quantity int) error {
	cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, productID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return &domain.InsufficientStockError{ProductID: productID, Requested: quantity}
	}
	return nil
}

func clearCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
UPDATE carts
SET primary_store_id = NULL,
    subtotal_cents = 0,
    shipping_fee_cents = 0,
    tax_cents = 0,
    total_cents = 0,
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
