package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sakura-imports/books-backend/internal/store"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
	// ErrAlreadyProcessed rejects a state transition on a quote that has
	// already left pending.
	ErrAlreadyProcessed = errors.New("quote already processed")
)

type Repository interface {
	Create(ctx context.Context, q *Quote) error
	GetByID(ctx context.Context, id int64) (*Quote, error)
	// GetForUpdate loads a quote and row-locks it for the life of the
	// surrounding transaction, so concurrent approvals of the same quote
	// serialize and the loser observes the terminal status.
	GetForUpdate(ctx context.Context, id int64) (*Quote, error)
	ListByStatus(ctx context.Context, status Status) ([]Quote, error)
	// SetStatus transitions a pending quote to a terminal status. It
	// returns ErrAlreadyProcessed when the row exists but is no longer
	// pending.
	SetStatus(ctx context.Context, id int64, status Status) error
}

type postgresRepository struct {
	db store.Querier
}

func NewRepository(db store.Querier) Repository {
	return &postgresRepository{db: db}
}

const quoteColumns = `quote_id, customer_name, book_title, book_price, profit_percent, profit,
	shipping_cost, shipping_adjustment_jpy, total_brl, total_jpy, exchange_rate, rate_source,
	status, admin_id, created_at, updated_at`

func scanQuote(row pgx.Row, q *Quote) error {
	return row.Scan(&q.ID, &q.CustomerName, &q.BookTitle, &q.BookPrice, &q.ProfitPercent, &q.Profit,
		&q.ShippingCost, &q.ShippingAdjustmentJPY, &q.TotalBRL, &q.TotalJPY, &q.ExchangeRate,
		&q.RateSource, &q.Status, &q.AdminID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *postgresRepository) Create(ctx context.Context, q *Quote) error {
	query := `
		INSERT INTO quotes (customer_name, book_title, book_price, profit_percent, profit,
			shipping_cost, shipping_adjustment_jpy, total_brl, total_jpy, exchange_rate, rate_source,
			status, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING quote_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		q.CustomerName, q.BookTitle, q.BookPrice, q.ProfitPercent, q.Profit,
		q.ShippingCost, q.ShippingAdjustmentJPY, q.TotalBRL, q.TotalJPY, q.ExchangeRate, q.RateSource,
		string(q.Status), q.AdminID,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert quote: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Quote, error) {
	var q Quote
	err := scanQuote(r.db.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE quote_id = $1`, id), &q)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("repository: failed to select quote %d: %w", id, err)
	}
	return &q, nil
}

func (r *postgresRepository) GetForUpdate(ctx context.Context, id int64) (*Quote, error) {
	var q Quote
	err := scanQuote(r.db.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE quote_id = $1 FOR UPDATE`, id), &q)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("repository: failed to lock quote %d: %w", id, err)
	}
	return &q, nil
}

func (r *postgresRepository) ListByStatus(ctx context.Context, status Status) ([]Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE status = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		var q Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, fmt.Errorf("repository: failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating quotes: %w", err)
	}
	return quotes, nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, id int64, status Status) error {
	query := `
		UPDATE quotes
		SET status = $1, updated_at = now()
		WHERE quote_id = $2 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update quote %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotes WHERE quote_id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("repository: failed to check quote %d: %w", id, err)
		}
		if !exists {
			return ErrQuoteNotFound
		}
		return ErrAlreadyProcessed
	}
	return nil
}
