package receipt

import (
	"context"

	"fowlpos/internal/core/id"
	"fowlpos/pkg/logger"
)

// Repository is the persistence surface for receipts.
type Repository interface {
	Create(ctx context.Context, rc *Receipt) error
	GetByID(ctx context.Context, receiptID id.ID) (*Receipt, error)
	GetByOrderID(ctx context.Context, orderID id.ID) (*Receipt, error)
	ListByCustomer(ctx context.Context, customerID id.ID, limit, offset int) ([]Receipt, error)
	MarkReprint(ctx context.Context, receiptID id.ID) error
}

// Service implements receipt retrieval and reprint.
type Service struct {
	repo Repository
}

// NewService creates a receipt service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns a receipt with its lines.
func (s *Service) GetByID(ctx context.Context, receiptID id.ID) (*Receipt, error) {
	return s.repo.GetByID(ctx, receiptID)
}

// GetByOrderID returns the receipt issued for an order.
func (s *Service) GetByOrderID(ctx context.Context, orderID id.ID) (*Receipt, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

// ListByCustomer returns a customer's receipts, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID id.ID, limit, offset int) ([]Receipt, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

// Reprint bumps the reprint counter and returns the receipt for printing.
// All monetary fields stay exactly as issued.
func (s *Service) Reprint(ctx context.Context, receiptID id.ID) (*Receipt, error) {
	if err := s.repo.MarkReprint(ctx, receiptID); err != nil {
		return nil, err
	}

	rc, err := s.repo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "receipt reprinted",
		"receipt_id", rc.ID, "receipt_number", rc.ReceiptNumber, "reprint_count", rc.ReprintCount)
	return rc, nil
}
