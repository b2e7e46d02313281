package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sakura-imports/books-backend/internal/store"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByUsername(ctx context.Context, username string) (*Admin, error)
}

type postgresRepository struct {
	db store.Querier
}

func NewRepository(db store.Querier) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *Admin) error {
	query := `
		INSERT INTO admins (login, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, a.Username, a.PasswordHash).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAdminExists
		}
		return fmt.Errorf("repository: failed to insert admin: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	query := `SELECT id, login, password_hash, created_at FROM admins WHERE login = $1`
	err := r.db.QueryRow(ctx, query, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("repository: failed to select admin %q: %w", username, err)
	}
	return &a, nil
}
