package product

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

const productColumns = `id::text, store_id::text, name, description, category, price_cents, stock, active, rating, rating_count, created_at`

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

func (r *postgresRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]domain.Product, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := []string{"active"}
	args := []interface{}{}
	if filter.StoreID != "" {
		args = append(args, filter.StoreID)
		where = append(where, fmt.Sprintf("store_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`
SELECT %s
FROM products
WHERE %s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d
`, productColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	row := r.pool.QueryRow(ctx, q, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	q := fmt.Sprintf(`
INSERT INTO products (store_id, name, description, category, price_cents, stock)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING %s
`, productColumns)
	row := r.pool.QueryRow(ctx, q, in.StoreID, in.Name, in.Description, in.Category, in.PriceCents, in.Stock)
	p, err := scanProduct(row)
	if err != nil {
		r.logger.Printf("product repo: create store_id=%s error=%v", in.StoreID, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s store_id=%s", p.ID, p.StoreID)
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	set := []string{}
	args := []interface{}{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.PriceCents != nil {
		add("price_cents", *in.PriceCents)
	}
	if in.Stock != nil {
		add("stock", *in.Stock)
	}
	if in.Active != nil {
		add("active", *in.Active)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(`
UPDATE products
SET %s
WHERE id = $%d
RETURNING %s
`, strings.Join(set, ", "), len(args), productColumns)

	row := r.pool.QueryRow(ctx, q, args...)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteByStore(ctx context.Context, storeID string) (int, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE store_id = $1`, storeID)
	if err != nil {
		r.logger.Printf("product repo: delete by store store_id=%s error=%v", storeID, err)
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *postgresRepo) Rate(ctx context.Context, id string, rating int) (*domain.Product, error) {
	q := fmt.Sprintf(`
UPDATE products
SET rating = (rating * rating_count + $2) / (rating_count + 1),
    rating_count = rating_count + 1
WHERE id = $1
RETURNING %s
`, productColumns)
	row := r.pool.QueryRow(ctx, q, id, rating)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.Stock, &p.Active, &p.Rating, &p.RatingCount, &p.CreatedAt)
	return p, err
}
