package cart

import (
	"context"
	"errors"

	"marketplace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cartColumns = `id::text, shopper_id::text, primary_store_id::text, subtotal_cents, shipping_fee_cents, tax_cents, total_cents, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreateByShopper(ctx context.Context, shopperID string) (*domain.Cart, error) {
	// The unique key on shopper_id makes concurrent creation safe: at most
	// one row ever exists, and ON CONFLICT turns the loser into a no-op.
	const q = `
INSERT INTO carts (shopper_id)
VALUES ($1)
ON CONFLICT (shopper_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q, shopperID); err != nil {
		return nil, err
	}
	return r.GetByShopper(ctx, shopperID)
}

func (r *postgresRepo) GetByShopper(ctx context.Context, shopperID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE shopper_id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, shopperID).Scan(
		&cart.ID,
		&cart.ShopperID,
		&cart.PrimaryStoreID,
		&cart.SubtotalCents,
		&cart.ShippingFeeCents,
		&cart.TaxCents,
		&cart.TotalCents,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id::text, store_id::text, quantity, unit_price_cents, total_cents, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.StoreID,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID string, product domain.Product, quantity int, storeID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lineID string
	var existingQty int
	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity, unit_price_cents
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, product.ID).Scan(&lineID, &existingQty, &unitPrice)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		// Repeat add: accumulate on the snapshot price taken at first add.
		newQty := existingQty + quantity
		newTotal := unitPrice * int64(newQty)
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = $2
WHERE id = $3
`, newQty, newTotal, lineID); err != nil {
			return err
		}
	} else {
		unitPrice = product.PriceCents
		total := unitPrice * int64(quantity)
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, store_id, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6)
`, cartID, product.ID, storeID, quantity, unitPrice, total); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
UPDATE carts
SET primary_store_id = COALESCE(primary_store_id, $2)
WHERE id = $1
`, cartID, storeID); err != nil {
		return err
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT unit_price_cents
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID).Scan(&unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	total := unitPrice * int64(quantity)
	if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = $2
WHERE cart_id = $3 AND product_id = $4
`, quantity, total, cartID, productID); err != nil {
		return err
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, productID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Removing an absent line is a no-op, not an error.
	if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID); err != nil {
		return err
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := clearInTx(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// clearInTx empties the cart and resets primary_store_id: a cleared cart is
// indistinguishable from a fresh one.
func clearInTx(ctx context.Context, tx pgx.Tx, cartID string) error {
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

func updateCartTotals(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET subtotal_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_lines
	WHERE cart_id = $1
), 0),
    total_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_lines
	WHERE cart_id = $1
), 0) + shipping_fee_cents + tax_cents,
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
