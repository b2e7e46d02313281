package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateAsset(ctx context.Context, a *Asset) error
	GetAsset(ctx context.Context, code int64) (*Asset, error)
	UpdateAsset(ctx context.Context, a *Asset) error
	DeleteAsset(ctx context.Context, code int64) error
	ListAssets(ctx context.Context) ([]ListEntry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateAsset(ctx context.Context, a *Asset) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return errors.New("service: asset name is required")
	}
	if a.RealPrice.IsNegative() {
		return errors.New("service: asset price cannot be negative")
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrAssetExists) {
			return ErrAssetExists
		}
		return fmt.Errorf("service: failed to create asset: %w", err)
	}

	log.Info().Int64("asset_code", a.Code).Str("name", a.Name).Msg("service: asset created")
	return nil
}

func (s *service) GetAsset(ctx context.Context, code int64) (*Asset, error) {
	a, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch asset: %w", err)
	}
	return a, nil
}

func (s *service) UpdateAsset(ctx context.Context, a *Asset) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return errors.New("service: asset name is required")
	}

	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, ErrAssetNotFound) || errors.Is(err, ErrAssetExists) {
			return err
		}
		return fmt.Errorf("service: failed to update asset: %w", err)
	}
	return nil
}

func (s *service) DeleteAsset(ctx context.Context, code int64) error {
	if err := s.repo.Consume(ctx, code); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("service: failed to delete asset: %w", err)
	}
	return nil
}

func (s *service) ListAssets(ctx context.Context) ([]ListEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list assets: %w", err)
	}
	return entries, nil
}
