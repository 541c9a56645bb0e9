package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"marketplace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, order_number, shopper_id::text, store_id::text, street, city, postal_code, country, phone, payment_method, payment_note, status, subtotal_cents, shipping_fee_cents, tax_cents, total_cents, customer_note, admin_note, shipped_at, delivered_at, created_at, updated_at`

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	row := r.pool.QueryRow(ctx, q, id)
	o, err := ScanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	if err := r.attachLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByShopper(ctx context.Context, shopperID string) ([]domain.Order, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM orders
WHERE shopper_id = $1
ORDER BY created_at DESC
`, orderColumns)
	rows, err := r.pool.Query(ctx, q, shopperID)
	if err != nil {
		r.logger.Printf("order repo: list by shopper shopper_id=%s error=%v", shopperID, err)
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.attachLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]domain.Order, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := []string{"TRUE"}
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.StoreID != "" {
		args = append(args, filter.StoreID)
		where = append(where, fmt.Sprintf("store_id = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+cond, args...).Scan(&total); err != nil {
		r.logger.Printf("order repo: count error=%v", err)
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`
SELECT %s
FROM orders
WHERE %s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d
`, orderColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		if err := r.attachLines(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	const q = `
UPDATE orders
SET status = $3,
    shipped_at = CASE WHEN $3 = 'shipped' THEN now() ELSE shipped_at END,
    delivered_at = CASE WHEN $3 = 'delivered' THEN now() ELSE delivered_at END,
    updated_at = now()
WHERE id = $1 AND status = $2
`
	cmd, err := r.pool.Exec(ctx, q, id, from, to)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s %s->%s error=%v", id, from, to, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Either the order vanished or a concurrent transition won.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	r.logger.Printf("order repo: status id=%s %s->%s", id, from, to)
	return nil
}

func (r *postgresRepo) attachLines(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT id::text, order_id::text, product_id::text, quantity, unit_price_cents, total_cents
FROM order_lines
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPriceCents, &line.TotalCents); err != nil {
			return err
		}
		o.Lines = append(o.Lines, line)
	}
	return rows.Err()
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := ScanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// ScanOrder reads one order row in orderColumns order. Shared with the
// checkout repository, which inserts orders inside its transaction.
func ScanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ShopperID, &o.StoreID,
		&o.DeliveryAddress.Street, &o.DeliveryAddress.City, &o.DeliveryAddress.PostalCode, &o.DeliveryAddress.Country, &o.DeliveryAddress.Phone,
		&o.PaymentMethod, &o.PaymentNote, &o.Status,
		&o.SubtotalCents, &o.ShippingFeeCents, &o.TaxCents, &o.TotalCents,
		&o.CustomerNote, &o.AdminNote,
		&o.ShippedAt, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// Columns returns the select list matching ScanOrder.
func Columns() string {
	return orderColumns
}
