package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/customer"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount rejects postings with a non-positive amount or an
// unrecognized transaction type before any store mutation.
var ErrInvalidAmount = errors.New("invalid transaction amount or type")

type Service interface {
	PostTransaction(ctx context.Context, customerName string, t *Transaction) error
	Account(ctx context.Context, customerName string) (*customer.Customer, []Transaction, Summary, error)
	Balance(ctx context.Context, customerID int64) (decimal.Decimal, error)
	DeleteTransaction(ctx context.Context, customerName string, id int64) error
}

type service struct {
	repo      Repository
	customers customer.Repository
}

func NewService(repo Repository, customers customer.Repository) Service {
	return &service{repo: repo, customers: customers}
}

// PostTransaction appends an entry to the named customer's account. The
// customer must already exist; posting never creates one.
func (s *service) PostTransaction(ctx context.Context, customerName string, t *Transaction) error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAmount, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	c, err := s.customers.GetByName(ctx, customerName)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return customer.ErrCustomerNotFound
		}
		return fmt.Errorf("service: failed to resolve customer for posting: %w", err)
	}

	t.CustomerID = c.ID
	t.CustomerName = c.Name
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now().UTC()
	}

	if err := s.repo.Post(ctx, t); err != nil {
		return fmt.Errorf("service: failed to post transaction: %w", err)
	}

	log.Info().
		Int64("account_id", t.ID).
		Int64("customer_id", t.CustomerID).
		Str("type", string(t.Type)).
		Str("amount", t.Amount.String()).
		Msg("service: transaction posted")
	return nil
}

func (s *service) Account(ctx context.Context, customerName string) (*customer.Customer, []Transaction, Summary, error) {
	c, err := s.customers.GetByName(ctx, customerName)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, nil, Summary{}, customer.ErrCustomerNotFound
		}
		return nil, nil, Summary{}, fmt.Errorf("service: failed to resolve customer: %w", err)
	}

	txns, err := s.repo.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, nil, Summary{}, fmt.Errorf("service: failed to list transactions: %w", err)
	}

	summary, err := s.repo.Balance(ctx, c.ID)
	if err != nil {
		return nil, nil, Summary{}, fmt.Errorf("service: failed to compute balance: %w", err)
	}

	return c, txns, summary, nil
}

func (s *service) Balance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	summary, err := s.repo.Balance(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: failed to compute balance: %w", err)
	}
	return summary.Balance, nil
}

func (s *service) DeleteTransaction(ctx context.Context, customerName string, id int64) error {
	if err := s.repo.Delete(ctx, id, customerName); err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("service: failed to delete transaction: %w", err)
	}
	return nil
}
