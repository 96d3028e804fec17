package settlement

import (
	"context"
	"time"

	"fowlpos/pkg/numerator"
)

// NumeratorAllocator adapts the numerator service to the engine's
// ReceiptNumberAllocator interface using the receipt numbering scheme
// (RCPT-YYYYMMDD-NNNNNN, strict, daily reset).
type NumeratorAllocator struct {
	svc *numerator.Service
}

// NewNumeratorAllocator wraps a numerator service.
func NewNumeratorAllocator(svc *numerator.Service) *NumeratorAllocator {
	return &NumeratorAllocator{svc: svc}
}

// NextReceiptNumber allocates the next number for the business date.
func (a *NumeratorAllocator) NextReceiptNumber(ctx context.Context, date time.Time) (string, error) {
	return a.svc.GetNextNumber(ctx, numerator.ReceiptConfig(), numerator.DefaultOptions(), date)
}
