// Package dashboard aggregates cross-entity statistics for the landing
// screen. Everything here is read-only and recomputed per request.
package dashboard

import (
	"context"
	"fmt"

	"github.com/sakura-imports/books-backend/internal/store"
	"github.com/shopspring/decimal"
)

type CustomerBalance struct {
	CustomerName    string          `json:"customer_name"`
	Balance         decimal.Decimal `json:"balance"`
	LastDescription *string         `json:"last_description"`
}

type TopCustomer struct {
	CustomerName string          `json:"customer_name"`
	OrderCount   int64           `json:"order_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

type RecentOrder struct {
	OrderID      int64           `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	AssetName    string          `json:"asset_name"`
	TotalValue   decimal.Decimal `json:"total_value"`
	OrderDate    string          `json:"order_date"`
}

// Stats is the dashboard payload.
type Stats struct {
	Customers        int64             `json:"customers"`
	Assets           int64             `json:"assets"`
	Orders           int64             `json:"orders"`
	ProcessingOrders int64             `json:"processing_orders"`
	Revenue          decimal.Decimal   `json:"revenue"`
	QuotesPending    int64             `json:"quotes_pending"`
	QuotesApproved   int64             `json:"quotes_approved"`
	QuotesRejected   int64             `json:"quotes_rejected"`
	Balances         []CustomerBalance `json:"balances"`
	TopCustomers     []TopCustomer     `json:"top_customers"`
	RecentOrders     []RecentOrder     `json:"recent_orders"`
}

type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
}

type postgresRepository struct {
	db store.Querier
}

func NewRepository(db store.Querier) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM assets),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE delivery_date IS NULL),
			(SELECT COALESCE(SUM(total_value), 0) FROM orders),
			(SELECT COUNT(*) FROM quotes WHERE status = 'pending'),
			(SELECT COUNT(*) FROM quotes WHERE status = 'approved'),
			(SELECT COUNT(*) FROM quotes WHERE status = 'rejected')
	`
	err := r.db.QueryRow(ctx, countsQuery).Scan(
		&s.Customers, &s.Assets, &s.Orders, &s.ProcessingOrders, &s.Revenue,
		&s.QuotesPending, &s.QuotesApproved, &s.QuotesRejected)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to collect dashboard counts: %w", err)
	}

	if s.Balances, err = r.balances(ctx); err != nil {
		return nil, err
	}
	if s.TopCustomers, err = r.topCustomers(ctx); err != nil {
		return nil, err
	}
	if s.RecentOrders, err = r.recentOrders(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

// balances lists customers whose derived balance is nonzero, with the
// description of their most recent entry for context.
func (r *postgresRepository) balances(ctx context.Context) ([]CustomerBalance, error) {
	query := `
		SELECT ca.customer_name,
			COALESCE(SUM(CASE WHEN ca.transaction_type = 'debit' THEN ca.amount ELSE -ca.amount END), 0) AS balance,
			(SELECT description FROM customer_accounts
				WHERE customer_name = ca.customer_name
				ORDER BY transaction_date DESC, created_at DESC LIMIT 1)
		FROM customer_accounts ca
		GROUP BY ca.customer_name
		HAVING COALESCE(SUM(CASE WHEN ca.transaction_type = 'debit' THEN ca.amount ELSE -ca.amount END), 0) <> 0
		ORDER BY balance DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query balances: %w", err)
	}
	defer rows.Close()

	balances := make([]CustomerBalance, 0)
	for rows.Next() {
		var b CustomerBalance
		if err := rows.Scan(&b.CustomerName, &b.Balance, &b.LastDescription); err != nil {
			return nil, fmt.Errorf("repository: failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *postgresRepository) topCustomers(ctx context.Context) ([]TopCustomer, error) {
	query := `
		SELECT customer_name, COUNT(*), COALESCE(SUM(total_value), 0)
		FROM orders
		GROUP BY customer_name
		ORDER BY COALESCE(SUM(total_value), 0) DESC
		LIMIT 5
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query top customers: %w", err)
	}
	defer rows.Close()

	top := make([]TopCustomer, 0)
	for rows.Next() {
		var t TopCustomer
		if err := rows.Scan(&t.CustomerName, &t.OrderCount, &t.TotalValue); err != nil {
			return nil, fmt.Errorf("repository: failed to scan top customer: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *postgresRepository) recentOrders(ctx context.Context) ([]RecentOrder, error) {
	query := `
		SELECT order_id, customer_name, asset_name, total_value, to_char(order_date, 'YYYY-MM-DD')
		FROM orders
		ORDER BY order_date DESC, order_id DESC
		LIMIT 5
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query recent orders: %w", err)
	}
	defer rows.Close()

	recent := make([]RecentOrder, 0)
	for rows.Next() {
		var o RecentOrder
		if err := rows.Scan(&o.OrderID, &o.CustomerName, &o.AssetName, &o.TotalValue, &o.OrderDate); err != nil {
			return nil, fmt.Errorf("repository: failed to scan recent order: %w", err)
		}
		recent = append(recent, o)
	}
	return recent, rows.Err()
}
