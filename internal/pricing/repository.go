package pricing

import (
	"context"
	"fmt"

	"github.com/sakura-imports/books-backend/internal/store"
	"github.com/shopspring/decimal"
)

type CalculationRepository interface {
	Create(ctx context.Context, calc *Calculation) error
	ListByAdmin(ctx context.Context, adminID int64, limit int) ([]Calculation, error)
}

type postgresCalculationRepository struct {
	db store.Querier
}

func NewCalculationRepository(db store.Querier) CalculationRepository {
	return &postgresCalculationRepository{db: db}
}

func (r *postgresCalculationRepository) Create(ctx context.Context, calc *Calculation) error {
	query := `
		INSERT INTO calculations (customer_name, book_title, book_price, profit_percent, profit,
			shipping_cost, shipping_adjustment_jpy, total_brl, total_jpy, exchange_rate, rate_source, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	b := calc.Breakdown
	err := r.db.QueryRow(ctx, query,
		calc.CustomerName, calc.BookTitle, b.BookPrice, b.ProfitPercent, b.Profit,
		b.ShippingCost, b.ShippingAdjustmentJPY.RoundBank(0).IntPart(), b.TotalBRL, b.TotalJPY,
		b.ExchangeRate, b.RateSource, calc.AdminID,
	).Scan(&calc.ID, &calc.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert calculation: %w", err)
	}
	return nil
}

func (r *postgresCalculationRepository) ListByAdmin(ctx context.Context, adminID int64, limit int) ([]Calculation, error) {
	query := `
		SELECT id, customer_name, book_title, book_price, profit_percent, profit,
			shipping_cost, shipping_adjustment_jpy, total_brl, total_jpy, exchange_rate, rate_source, created_at
		FROM calculations
		WHERE admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, adminID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query calculations: %w", err)
	}
	defer rows.Close()

	calcs := make([]Calculation, 0)
	for rows.Next() {
		var c Calculation
		var adjustmentJPY int64
		err := rows.Scan(
			&c.ID, &c.CustomerName, &c.BookTitle,
			&c.Breakdown.BookPrice, &c.Breakdown.ProfitPercent, &c.Breakdown.Profit,
			&c.Breakdown.ShippingCost, &adjustmentJPY, &c.Breakdown.TotalBRL, &c.Breakdown.TotalJPY,
			&c.Breakdown.ExchangeRate, &c.Breakdown.RateSource, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan calculation: %w", err)
		}
		c.Breakdown.ShippingAdjustmentJPY = decimal.NewFromInt(adjustmentJPY)
		c.AdminID = adminID
		calcs = append(calcs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating calculations: %w", err)
	}
	return calcs, nil
}
