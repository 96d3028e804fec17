package customer

import (
	"context"

	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain"
	"fowlpos/pkg/logger"
)

// Repository is the persistence surface the customer service needs.
// ApplyDelta is reserved for the settlement engine: it is the only
// legal way to move a balance.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	GetForUpdate(ctx context.Context, customerID id.ID) (*Customer, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error)
	ApplyDelta(ctx context.Context, customerID id.ID, delta types.Money) (types.Money, error)
	SetDeletionMark(ctx context.Context, customerID id.ID, marked bool) error
}

// Service implements customer ledger maintenance.
type Service struct {
	repo Repository
}

// NewService creates a customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new customer with an explicit starting balance.
func (s *Service) Create(ctx context.Context, name, phone string, startingBalance types.Money) (*Customer, error) {
	c := New(name, phone, startingBalance)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info(ctx, "customer created",
		"customer_id", c.ID, "name", c.Name, "starting_balance", c.Balance)
	return c, nil
}

// GetByID returns a customer or NOT_FOUND.
func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// List returns customers with their current balances.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error) {
	return s.repo.List(ctx, filter)
}

// SetDeletionMark soft-deletes or restores a customer.
func (s *Service) SetDeletionMark(ctx context.Context, customerID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, customerID, marked)
}
