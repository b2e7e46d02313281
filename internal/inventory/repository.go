package inventory

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
	ErrAssetNotFound = errors.New("asset not found")
	ErrAssetExists   = errors.New("asset with this name already exists")
)

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByCode(ctx context.Context, code int64) (*Asset, error)
	Resolve(ctx context.Context, name string) (*Asset, error)
	Consume(ctx context.Context, code int64) error
	Update(ctx context.Context, a *Asset) error
	List(ctx context.Context) ([]ListEntry, error)
}

type postgresRepository struct {
	db store.Querier
}

func NewRepository(db store.Querier) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *Asset) error {
	query := `
		INSERT INTO assets (asset_name, real_price, ienes_price, black, private)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING asset_code, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, a.Name, a.RealPrice, a.IenesPrice, a.Black, a.Private).
		Scan(&a.Code, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAssetExists
		}
		return fmt.Errorf("repository: failed to insert asset: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, code int64) (*Asset, error) {
	query := `
		SELECT asset_code, asset_name, real_price, ienes_price, black, private, created_at, updated_at
		FROM assets
		WHERE asset_code = $1
	`
	var a Asset
	err := r.db.QueryRow(ctx, query, code).
		Scan(&a.Code, &a.Name, &a.RealPrice, &a.IenesPrice, &a.Black, &a.Private, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("repository: failed to select asset %d: %w", code, err)
	}
	return &a, nil
}

// Resolve looks an asset up by exact name. Lookup only: a miss returns
// ErrAssetNotFound and never creates stock.
func (r *postgresRepository) Resolve(ctx context.Context, name string) (*Asset, error) {
	query := `
		SELECT asset_code, asset_name, real_price, ienes_price, black, private, created_at, updated_at
		FROM assets
		WHERE asset_name = $1
	`
	var a Asset
	err := r.db.QueryRow(ctx, query, name).
		Scan(&a.Code, &a.Name, &a.RealPrice, &a.IenesPrice, &a.Black, &a.Private, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("repository: failed to resolve asset %q: %w", name, err)
	}
	return &a, nil
}

// Consume deletes a sold asset from inventory.
func (r *postgresRepository) Consume(ctx context.Context, code int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assets WHERE asset_code = $1`, code)
	if err != nil {
		return fmt.Errorf("repository: failed to consume asset %d: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, a *Asset) error {
	query := `
		UPDATE assets
		SET asset_name = $1, real_price = $2, ienes_price = $3, black = $4, private = $5, updated_at = now()
		WHERE asset_code = $6
	`
	tag, err := r.db.Exec(ctx, query, a.Name, a.RealPrice, a.IenesPrice, a.Black, a.Private, a.Code)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAssetExists
		}
		return fmt.Errorf("repository: failed to update asset %d: %w", a.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]ListEntry, error) {
	query := `
		SELECT a.asset_code, a.asset_name, a.real_price, a.ienes_price, a.black, a.private,
			a.created_at, a.updated_at,
			COUNT(o.order_id) AS times_sold,
			COALESCE(SUM(o.total_value), 0) AS total_revenue
		FROM assets a
		LEFT JOIN orders o ON a.asset_code = o.asset_code
		GROUP BY a.asset_code
		ORDER BY times_sold DESC, a.asset_name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query assets: %w", err)
	}
	defer rows.Close()

	entries := make([]ListEntry, 0)
	for rows.Next() {
		var e ListEntry
		err := rows.Scan(&e.Code, &e.Name, &e.RealPrice, &e.IenesPrice, &e.Black, &e.Private,
			&e.CreatedAt, &e.UpdatedAt, &e.TimesSold, &e.TotalRevenue)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan asset: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating assets: %w", err)
	}
	return entries, nil
}
