package order

import (
	"context"

	"fowlpos/internal/core/id"
)

// Repository is the read surface for settled orders. Creation goes
// through the settlement engine only.
type Repository interface {
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	GetItems(ctx context.Context, orderID id.ID) ([]Item, error)
}

// Service implements order retrieval.
type Service struct {
	repo Repository
}

// NewService creates an order read service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns an order with its lines.
func (s *Service) Get(ctx context.Context, orderID id.ID) (*Order, []Item, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}
