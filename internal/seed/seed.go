package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type shopperSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type productSeed struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Stock       int
}

// Apply inserts basic demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	shoppers := []shopperSeed{
		{Email: "admin@marketplace.local", Password: "admin123", FirstName: "Ada", LastName: "Admin", Role: "admin"},
		{Email: "manager@marketplace.local", Password: "manager123", FirstName: "Marc", LastName: "Manager", Role: "manager"},
		{Email: "client@marketplace.local", Password: "client123", FirstName: "Claire", LastName: "Client", Role: "client"},
	}

	ids := make(map[string]string, len(shoppers))
	for _, s := range shoppers {
		id, err := upsertShopper(ctx, pool, s)
		if err != nil {
			return fmt.Errorf("upsert shopper %s: %w", s.Email, err)
		}
		ids[s.Role] = id
	}

	storeID, err := ensureStore(ctx, pool, "Marché de la Gare", ids["manager"])
	if err != nil {
		return fmt.Errorf("ensure store: %w", err)
	}

	products := []productSeed{
		{Name: "Tomates anciennes", Description: "Barquette de tomates anciennes 500g", Category: "fruits-vegetables", PriceCents: 450, Stock: 40},
		{Name: "Camembert fermier", Description: "Camembert au lait cru, 250g", Category: "dairy", PriceCents: 620, Stock: 25},
		{Name: "Baguette tradition", Description: "Cuite du jour", Category: "grocery", PriceCents: 130, Stock: 60},
		{Name: "Jus de pomme artisanal", Description: "Bouteille 1L pressée à la ferme", Category: "drinks", PriceCents: 380, Stock: 30},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, storeID, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertShopper(ctx context.Context, pool *pgxpool.Pool, s shopperSeed) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	const q = `
INSERT INTO shoppers (email, password_hash, first_name, last_name, role)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    role = EXCLUDED.role
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, s.Email, string(hash), s.FirstName, s.LastName, s.Role).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, name, managerID string) (string, error) {
	const q = `
INSERT INTO stores (name, description, street, city, postal_code, country, manager_id)
VALUES ($1, 'Produits frais et locaux', '3 place de la Gare', 'Lyon', '69003', 'France', $2)
ON CONFLICT (name) DO UPDATE SET manager_id = EXCLUDED.manager_id
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name, managerID).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, storeID string, p productSeed) error {
	const exists = `SELECT EXISTS (SELECT 1 FROM products WHERE store_id = $1 AND name = $2)`
	var found bool
	if err := pool.QueryRow(ctx, exists, storeID, p.Name).Scan(&found); err != nil {
		return err
	}
	if found {
		const upd = `
UPDATE products
SET description = $3, category = $4, price_cents = $5, stock = $6
WHERE store_id = $1 AND name = $2
`
		_, err := pool.Exec(ctx, upd, storeID, p.Name, p.Description, p.Category, p.PriceCents, p.Stock)
		return err
	}

	const ins = `
INSERT INTO products (store_id, name, description, category, price_cents, stock)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := pool.Exec(ctx, ins, storeID, p.Name, p.Description, p.Category, p.PriceCents, p.Stock)
	return err
}
