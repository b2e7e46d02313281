package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/sakura-imports/books-backend/internal/customer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	PostFunc           func(ctx context.Context, t *Transaction) error
	ListByCustomerFunc func(ctx context.Context, customerID int64) ([]Transaction, error)
	BalanceFunc        func(ctx context.Context, customerID int64) (Summary, error)
	DeleteFunc         func(ctx context.Context, id int64, customerName string) error
}

func (m *mockRepo) Post(ctx context.Context, t *Transaction) error { return m.PostFunc(ctx, t) }
func (m *mockRepo) ListByCustomer(ctx context.Context, customerID int64) ([]Transaction, error) {
	return m.ListByCustomerFunc(ctx, customerID)
}
func (m *mockRepo) Balance(ctx context.Context, customerID int64) (Summary, error) {
	return m.BalanceFunc(ctx, customerID)
}
func (m *mockRepo) Delete(ctx context.Context, id int64, customerName string) error {
	return m.DeleteFunc(ctx, id, customerName)
}

type mockCustomers struct {
	customer.Repository
	GetByNameFunc func(ctx context.Context, name string) (*customer.Customer, error)
}

func (m *mockCustomers) GetByName(ctx context.Context, name string) (*customer.Customer, error) {
	return m.GetByNameFunc(ctx, name)
}

func TestService_PostTransaction(t *testing.T) {
	alice := &customer.Customer{ID: 42, Name: "Alice"}
	customers := &mockCustomers{
		GetByNameFunc: func(ctx context.Context, name string) (*customer.Customer, error) {
			if name == "Alice" {
				return alice, nil
			}
			return nil, customer.ErrCustomerNotFound
		},
	}

	t.Run("posts a valid debit", func(t *testing.T) {
		var posted *Transaction
		repo := &mockRepo{
			PostFunc: func(ctx context.Context, txn *Transaction) error {
				posted = txn
				return nil
			},
		}
		svc := NewService(repo, customers)

		txn := &Transaction{Type: TypeDebit, Amount: decimal.NewFromInt(1000)}
		require.NoError(t, svc.PostTransaction(context.Background(), "Alice", txn))

		assert.Equal(t, int64(42), posted.CustomerID)
		assert.Equal(t, "Alice", posted.CustomerName)
		assert.False(t, posted.TransactionDate.IsZero())
	})

	t.Run("keeps an explicit transaction date", func(t *testing.T) {
		repo := &mockRepo{
			PostFunc: func(ctx context.Context, txn *Transaction) error { return nil },
		}
		svc := NewService(repo, customers)

		date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		txn := &Transaction{Type: TypePayment, Amount: decimal.NewFromInt(400), TransactionDate: date}
		require.NoError(t, svc.PostTransaction(context.Background(), "Alice", txn))
		assert.Equal(t, date, txn.TransactionDate)
	})

	t.Run("rejects invalid type and amount", func(t *testing.T) {
		svc := NewService(&mockRepo{}, customers)

		err := svc.PostTransaction(context.Background(), "Alice",
			&Transaction{Type: "refund", Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, ErrInvalidAmount)

		err = svc.PostTransaction(context.Background(), "Alice",
			&Transaction{Type: TypeDebit, Amount: decimal.Zero})
		assert.ErrorIs(t, err, ErrInvalidAmount)

		err = svc.PostTransaction(context.Background(), "Alice",
			&Transaction{Type: TypeCredit, Amount: decimal.NewFromInt(-5)})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("never creates an unknown customer", func(t *testing.T) {
		repo := &mockRepo{
			PostFunc: func(ctx context.Context, txn *Transaction) error {
				t.Fatal("post must not be reached for an unknown customer")
				return nil
			},
		}
		svc := NewService(repo, customers)

		err := svc.PostTransaction(context.Background(), "Nobody",
			&Transaction{Type: TypeDebit, Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
	})
}

func TestService_Account(t *testing.T) {
	alice := &customer.Customer{ID: 42, Name: "Alice"}
	customers := &mockCustomers{
		GetByNameFunc: func(ctx context.Context, name string) (*customer.Customer, error) {
			return alice, nil
		},
	}

	// debit 1000, payment 400, credit 100: balance owed is 500.
	repo := &mockRepo{
		ListByCustomerFunc: func(ctx context.Context, customerID int64) ([]Transaction, error) {
			return []Transaction{
				{Type: TypeDebit, Amount: decimal.NewFromInt(1000)},
				{Type: TypePayment, Amount: decimal.NewFromInt(400)},
				{Type: TypeCredit, Amount: decimal.NewFromInt(100)},
			}, nil
		},
		BalanceFunc: func(ctx context.Context, customerID int64) (Summary, error) {
			return Summary{
				TotalDebt:     decimal.NewFromInt(1000),
				TotalPayments: decimal.NewFromInt(400),
				TotalCredits:  decimal.NewFromInt(100),
				Balance:       decimal.NewFromInt(500),
			}, nil
		},
	}
	svc := NewService(repo, customers)

	c, txns, summary, err := svc.Account(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.ID)
	assert.Len(t, txns, 3)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(500)))
}
