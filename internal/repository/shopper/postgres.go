package shopper

import (
	"context"
	"errors"
	"io"
	"log"

	"marketplace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shopperColumns = `id::text, email, password_hash, first_name, last_name, phone, role, created_at`

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

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Shopper, error) {
	const q = `
INSERT INTO shoppers (email, password_hash, first_name, last_name, phone, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + shopperColumns
	row := r.pool.QueryRow(ctx, q, in.Email, in.PasswordHash, in.FirstName, in.LastName, in.Phone, in.Role)
	s, err := scanShopper(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("shopper repo: create email=%s error=%v", in.Email, err)
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Shopper, error) {
	const q = `SELECT ` + shopperColumns + ` FROM shoppers WHERE id = $1`
	row := r.pool.QueryRow(ctx, q, id)
	s, err := scanShopper(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Shopper, error) {
	const q = `SELECT ` + shopperColumns + ` FROM shoppers WHERE email = $1`
	row := r.pool.QueryRow(ctx, q, email)
	s, err := scanShopper(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanShopper(row pgx.Row) (domain.Shopper, error) {
	var s domain.Shopper
	err := row.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.FirstName, &s.LastName, &s.Phone, &s.Role, &s.CreatedAt)
	return s, err
}
