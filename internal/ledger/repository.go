package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakura-imports/books-backend/internal/store"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type Repository interface {
	Post(ctx context.Context, t *Transaction) error
	ListByCustomer(ctx context.Context, customerID int64) ([]Transaction, error)
	Balance(ctx context.Context, customerID int64) (Summary, error)
	Delete(ctx context.Context, id int64, customerName string) error
}

type postgresRepository struct {
	db store.Querier
}

func NewRepository(db store.Querier) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Post(ctx context.Context, t *Transaction) error {
	query := `
		INSERT INTO customer_accounts (customer_id, customer_name, transaction_type, amount,
			description, order_id, transaction_date, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING account_id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		t.CustomerID, t.CustomerName, string(t.Type), t.Amount,
		t.Description, t.OrderID, t.TransactionDate, t.AdminID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert transaction: %w", err)
	}
	return nil
}

// ListByCustomer returns the account history newest first. Ties on the
// operator-supplied transaction date fall back to insertion time.
func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID int64) ([]Transaction, error) {
	query := `
		SELECT account_id, customer_id, customer_name, transaction_type, amount,
			description, order_id, transaction_date, created_at
		FROM customer_accounts
		WHERE customer_id = $1
		ORDER BY transaction_date DESC, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query transactions for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	txns := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		err := rows.Scan(&t.ID, &t.CustomerID, &t.CustomerName, &t.Type, &t.Amount,
			&t.Description, &t.OrderID, &t.TransactionDate, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating transactions: %w", err)
	}
	return txns, nil
}

func (r *postgresRepository) Balance(ctx context.Context, customerID int64) (Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'debit' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'payment' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'credit' THEN amount ELSE 0 END), 0)
		FROM customer_accounts
		WHERE customer_id = $1
	`
	var s Summary
	err := r.db.QueryRow(ctx, query, customerID).Scan(&s.TotalDebt, &s.TotalPayments, &s.TotalCredits)
	if err != nil {
		return Summary{}, fmt.Errorf("repository: failed to aggregate balance for customer %d: %w", customerID, err)
	}
	s.Balance = s.TotalDebt.Sub(s.TotalPayments).Sub(s.TotalCredits)
	return s, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64, customerName string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM customer_accounts WHERE account_id = $1 AND customer_name = $2`, id, customerName)
	if err != nil {
		return fmt.Errorf("repository: failed to delete transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
