package product

import (
	"context"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain"
	"fowlpos/pkg/logger"
)

// Repository is the persistence surface the product service needs.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
	SetDeletionMark(ctx context.Context, productID id.ID, marked bool) error
	Delete(ctx context.Context, productID id.ID) error
}

// Service implements price catalog operations. Catalog writes are
// maintenance operations; the settlement engine only ever reads.
type Service struct {
	repo Repository
}

// NewService creates a product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, name, unit string, price types.Money) (*Product, error) {
	p := New(name, unit, price)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name, "price", p.Price)
	return p, nil
}

// GetByID returns a product or NOT_FOUND. Missing products are a hard
// failure everywhere, never a default zero price.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.List(ctx, filter)
}

// UpdatePrice changes the catalog price. Existing receipts keep the
// values they were issued with.
func (s *Service) UpdatePrice(ctx context.Context, productID id.ID, price types.Money, version int) (*Product, error) {
	if price.IsNegative() {
		return nil, apperror.NewValidation("product price must not be negative").
			WithDetail("price", price.String())
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	oldPrice := p.Price
	p.Price = price
	p.Version = version
	p.Touch()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	p.Version++

	logger.Info(ctx, "product price updated",
		"product_id", p.ID, "old_price", oldPrice, "new_price", price)
	return p, nil
}

// SetDeletionMark soft-deletes or restores a product.
func (s *Service) SetDeletionMark(ctx context.Context, productID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, productID, marked)
}

// Delete physically removes a product. Only succeeds when no order or
// receipt line references it; otherwise the repository reports a conflict
// and the caller should fall back to a deletion mark.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}
	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}
