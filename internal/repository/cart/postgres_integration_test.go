package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func integrationPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	const q = `TRUNCATE order_lines, orders, cart_lines, carts, products, stores, tokens, shoppers CASCADE`
	if _, err := pool.Exec(ctx, q); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func TestCartLifecycle_Integration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	var shopperID, storeID string
	if err := pool.QueryRow(ctx, `
INSERT INTO shoppers (email, password_hash, role)
VALUES ('cart-it@marketplace.local', 'x', 'client')
RETURNING id::text
`).Scan(&shopperID); err != nil {
		t.Fatalf("insert shopper: %v", err)
	}
	if err := pool.QueryRow(ctx, `
INSERT INTO stores (name, manager_id)
VALUES ('Cart IT Store', $1)
RETURNING id::text
`, shopperID).Scan(&storeID); err != nil {
		t.Fatalf("insert store: %v", err)
	}
	var productID string
	if err := pool.QueryRow(ctx, `
INSERT INTO products (store_id, name, price_cents, stock)
VALUES ($1, 'Tomates', 450, 20)
RETURNING id::text
`, storeID).Scan(&productID); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	repo := NewPostgres(pool)

	first, err := repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil || second.ID != first.ID {
		t.Fatalf("GetOrCreate must be idempotent: %v %s %s", err, first.ID, second.ID)
	}

	product := domain.Product{ID: productID, StoreID: storeID, PriceCents: 450}
	if err := repo.AddLine(ctx, first.ID, product, 2, storeID); err != nil {
		t.Fatalf("add line: %v", err)
	}

	cart, err := repo.GetByShopper(ctx, shopperID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 || cart.Lines[0].UnitPriceCents != 450 {
		t.Fatalf("unexpected line: %+v", cart.Lines)
	}
	if cart.SubtotalCents != 900 || cart.TotalCents != 900 {
		t.Fatalf("totals must follow the lines: %+v", cart)
	}
	if cart.PrimaryStoreID == nil || *cart.PrimaryStoreID != storeID {
		t.Fatalf("first add must pin the primary store")
	}

	// Catalog price changes must not move the snapshot.
	if _, err := pool.Exec(ctx, `UPDATE products SET price_cents = 999 WHERE id = $1`, productID); err != nil {
		t.Fatalf("update price: %v", err)
	}
	repriced := domain.Product{ID: productID, StoreID: storeID, PriceCents: 999}
	if err := repo.AddLine(ctx, first.ID, repriced, 1, storeID); err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	cart, err = repo.GetByShopper(ctx, shopperID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 3 {
		t.Fatalf("repeat add must accumulate, got %+v", cart.Lines)
	}
	if cart.Lines[0].UnitPriceCents != 450 || cart.Lines[0].TotalCents != 1350 {
		t.Fatalf("snapshot price must survive repricing: %+v", cart.Lines[0])
	}
	if cart.SubtotalCents != 1350 {
		t.Fatalf("expected subtotal 1350, got %d", cart.SubtotalCents)
	}

	if err := repo.SetLineQuantity(ctx, first.ID, productID, 1); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	cart, _ = repo.GetByShopper(ctx, shopperID)
	if cart.Lines[0].Quantity != 1 || cart.SubtotalCents != 450 {
		t.Fatalf("quantity change must recompute totals: %+v", cart)
	}

	if err := repo.SetLineQuantity(ctx, first.ID, "00000000-0000-0000-0000-000000000000", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent line, got %v", err)
	}

	if err := repo.RemoveLine(ctx, first.ID, productID); err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if err := repo.RemoveLine(ctx, first.ID, productID); err != nil {
		t.Fatalf("removing an absent line must be a no-op: %v", err)
	}
	cart, _ = repo.GetByShopper(ctx, shopperID)
	if len(cart.Lines) != 0 || cart.TotalCents != 0 {
		t.Fatalf("expected empty cart with zero totals: %+v", cart)
	}

	if err := repo.AddLine(ctx, first.ID, product, 1, storeID); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if err := repo.Clear(ctx, first.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cart, _ = repo.GetByShopper(ctx, shopperID)
	if len(cart.Lines) != 0 || cart.TotalCents != 0 || cart.PrimaryStoreID != nil {
		t.Fatalf("cleared cart must look fresh: %+v", cart)
	}
}
