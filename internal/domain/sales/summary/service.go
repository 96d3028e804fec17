package summary

import (
	"context"
	"time"

	"fowlpos/internal/core/types"
	"fowlpos/pkg/logger"
)

// Repository is the persistence surface for daily aggregates.
type Repository interface {
	AddToDate(ctx context.Context, date time.Time, amount types.Money) error
	Overwrite(ctx context.Context, date time.Time, total types.Money) error
	GetForDate(ctx context.Context, date time.Time) (*DailySalesSummary, error)
	SumOrdersForDate(ctx context.Context, date time.Time) (types.Money, error)
}

// Service maintains daily sales totals. RecordSale is called exactly once
// per settlement, inside the settlement transaction, by explicit call.
// There is no save-hook magic: if nobody calls it, nothing is aggregated.
type Service struct {
	repo Repository
}

// NewService creates a summary service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordSale folds one order total into the day's summary.
func (s *Service) RecordSale(ctx context.Context, date time.Time, amount types.Money) error {
	return s.repo.AddToDate(ctx, truncateToDate(date), amount)
}

// GetForDate returns the day's summary. A day with no sales is presented
// as a zero row, not an error.
func (s *Service) GetForDate(ctx context.Context, date time.Time) (*DailySalesSummary, error) {
	date = truncateToDate(date)
	row, err := s.repo.GetForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &DailySalesSummary{SalesDate: date, TotalSales: types.ZeroMoney()}, nil
	}
	return row, nil
}

// Rebuild recomputes the day total from orders and overwrites the cached
// row. The result must equal what incremental upserts produced; any drift
// means a write skipped the settlement path.
func (s *Service) Rebuild(ctx context.Context, date time.Time) (*DailySalesSummary, error) {
	date = truncateToDate(date)

	total, err := s.repo.SumOrdersForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Overwrite(ctx, date, total); err != nil {
		return nil, err
	}

	logger.Info(ctx, "daily summary rebuilt", "date", date.Format("2006-01-02"), "total", total)
	return &DailySalesSummary{SalesDate: date, TotalSales: total, UpdatedAt: time.Now().UTC()}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
