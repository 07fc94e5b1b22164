package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commune-social/commune/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	CreateAccount(ctx context.Context, account *Account) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, name, email, password_hash, avatar_url, created_at, updated_at`

// FindByEmail fetches an account by its email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByID fetches an account by its id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// CreateAccount inserts a new account and returns its id. The unique index on
// email is the enforcement point for duplicate registration: a concurrent
// insert that slips past the pre-check still fails here with
// shared.ErrDuplicateAccount.
func (r *PGRepository) CreateAccount(ctx context.Context, account *Account) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (name, email, password_hash, avatar_url) VALUES ($1, $2, $3, $4) RETURNING id`,
		account.Name, account.Email, account.PasswordHash, account.AvatarURL,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, shared.ErrDuplicateAccount
		}
		return 0, err
	}
	return id, nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var account Account
	err := row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.AvatarURL, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

var _ Repository = (*PGRepository)(nil)
