package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"marketplace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storeColumns = `id::text, name, description, street, city, postal_code, country, phone, email, manager_id::text, active, rating, rating_count, created_at`

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

func (r *postgresRepo) List(ctx context.Context, search string, limit, offset int) ([]domain.Store, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	cond := "active"
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		cond += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE `+cond, args...).Scan(&total); err != nil {
		r.logger.Printf("store repo: count error=%v", err)
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`
SELECT %s
FROM stores
WHERE %s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d
`, storeColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("store repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	q := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)
	row := r.pool.QueryRow(ctx, q, id)
	s, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("store repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Store, error) {
	q := fmt.Sprintf(`
INSERT INTO stores (name, description, street, city, postal_code, country, phone, email, manager_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING %s
`, storeColumns)
	row := r.pool.QueryRow(ctx, q,
		in.Name, in.Description,
		in.Address.Street, in.Address.City, in.Address.PostalCode, in.Address.Country, in.Address.Phone,
		in.Email, in.ManagerID,
	)
	s, err := scanStore(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("store repo: create name=%s error=%v", in.Name, err)
		return nil, err
	}
	r.logger.Printf("store repo: created id=%s name=%s", s.ID, s.Name)
	return &s, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Store, error) {
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
	if in.Address != nil {
		add("street", in.Address.Street)
		add("city", in.Address.City)
		add("postal_code", in.Address.PostalCode)
		add("country", in.Address.Country)
		add("phone", in.Address.Phone)
	}
	if in.Email != nil {
		add("email", *in.Email)
	}
	if in.Active != nil {
		add("active", *in.Active)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(`
UPDATE stores
SET %s
WHERE id = $%d
RETURNING %s
`, strings.Join(set, ", "), len(args), storeColumns)

	row := r.pool.QueryRow(ctx, q, args...)
	s, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("store repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("store repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Rate(ctx context.Context, id string, rating int) (*domain.Store, error) {
	q := fmt.Sprintf(`
UPDATE stores
SET rating = (rating * rating_count + $2) / (rating_count + 1),
    rating_count = rating_count + 1
WHERE id = $1
RETURNING %s
`, storeColumns)
	row := r.pool.QueryRow(ctx, q, id, rating)
	s, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanStore(row pgx.Row) (domain.Store, error) {
	var s domain.Store
	err := row.Scan(
		&s.ID, &s.Name, &s.Description,
		&s.Address.Street, &s.Address.City, &s.Address.PostalCode, &s.Address.Country, &s.Address.Phone,
		&s.Email, &s.ManagerID, &s.Active, &s.Rating, &s.RatingCount, &s.CreatedAt,
	)
	return s, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
