package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) (*ListResult, error)
	UpdateOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id int64) error
	BatchEdit(ctx context.Context, ids []int64, deliveryDate *string, paymentType *string) (int64, error)
	BatchDelete(ctx context.Context, ids []int64) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateOrder(ctx context.Context, o *Order) error {
	if o.CustomerName == "" {
		return errors.New("service: customer name is required")
	}
	if o.TotalValue.IsNegative() {
		return errors.New("service: total value cannot be negative")
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Int64("order_id", o.ID).Str("customer", o.CustomerName).Msg("service: order created")
	return nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, filter ListFilter) (*ListResult, error) {
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return res, nil
}

func (s *service) UpdateOrder(ctx context.Context, o *Order) error {
	if err := s.repo.Update(ctx, o); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to update order: %w", err)
	}
	return nil
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to delete order: %w", err)
	}
	return nil
}

func (s *service) BatchEdit(ctx context.Context, ids []int64, deliveryDate *string, paymentType *string) (int64, error) {
	if deliveryDate == nil && paymentType == nil {
		return 0, errors.New("service: no fields selected for batch edit")
	}
	n, err := s.repo.BatchEdit(ctx, ids, deliveryDate, paymentType)
	if err != nil {
		return 0, fmt.Errorf("service: failed to batch edit orders: %w", err)
	}
	log.Info().Int64("updated", n).Msg("service: batch edit applied")
	return n, nil
}

func (s *service) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.BatchDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("service: failed to batch delete orders: %w", err)
	}
	log.Info().Int64("deleted", n).Msg("service: batch delete applied")
	return n, nil
}
