package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrCustomerHasOrders guards deletion of a customer that still owns orders.
var ErrCustomerHasOrders = errors.New("customer has existing orders")

type Service interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	GetCustomerByName(ctx context.Context, name string) (*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context) ([]ListEntry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCustomer(ctx context.Context, c *Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("service: customer name is required")
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrCustomerExists) {
			return ErrCustomerExists
		}
		return fmt.Errorf("service: failed to create customer: %w", err)
	}

	log.Info().Int64("customer_id", c.ID).Str("name", c.Name).Msg("service: customer created")
	return nil
}

func (s *service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch customer: %w", err)
	}
	return c, nil
}

func (s *service) GetCustomerByName(ctx context.Context, name string) (*Customer, error) {
	c, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch customer by name: %w", err)
	}
	return c, nil
}

func (s *service) UpdateCustomer(ctx context.Context, c *Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("service: customer name is required")
	}

	// Renames never retroactively update past orders: the name copies on
	// order rows are historical snapshots, not live references.
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, ErrCustomerNotFound) || errors.Is(err, ErrCustomerExists) {
			return err
		}
		return fmt.Errorf("service: failed to update customer: %w", err)
	}
	return nil
}

func (s *service) DeleteCustomer(ctx context.Context, id int64) error {
	count, err := s.repo.OrderCount(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to check customer orders: %w", err)
	}
	if count > 0 {
		log.Warn().Int64("customer_id", id).Int64("orders", count).Msg("service: refusing to delete customer with orders")
		return fmt.Errorf("%w: %d order(s)", ErrCustomerHasOrders, count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("service: failed to delete customer: %w", err)
	}
	return nil
}

func (s *service) ListCustomers(ctx context.Context) ([]ListEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list customers: %w", err)
	}
	return entries, nil
}
