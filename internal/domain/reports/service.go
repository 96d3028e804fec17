package reports

import (
	"context"
	"time"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/tx"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/sales/summary"
)

// Repository is the read surface for report queries.
type Repository interface {
	MonthlySeries(ctx context.Context, from, to time.Time) ([]MonthlyBucket, error)
	DailySeries(ctx context.Context, from, to time.Time) ([]DailyBucket, error)
	CustomerBalances(ctx context.Context) ([]CustomerBalance, error)
}

// Service assembles read-only reports.
type Service struct {
	repo    Repository
	summary *summary.Service
	rotx    tx.ReadOnlyManager
}

// NewService creates a reports service.
func NewService(repo Repository, summarySvc *summary.Service, rotx tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, summary: summarySvc, rotx: rotx}
}

// Daily returns the summary for one business date, zero when no sales.
func (s *Service) Daily(ctx context.Context, date time.Time) (*summary.DailySalesSummary, error) {
	return s.summary.GetForDate(ctx, date)
}

// Monthly returns per-month totals over the range.
func (s *Service) Monthly(ctx context.Context, from, to time.Time) ([]MonthlyBucket, error) {
	if to.Before(from) {
		return nil, apperror.NewValidation("date range is inverted")
	}
	return s.repo.MonthlySeries(ctx, from, to)
}

// Range aggregates sales over an inclusive date range. Runs in a
// read-only transaction so the day series and the totals see the same
// snapshot.
func (s *Service) Range(ctx context.Context, from, to time.Time) (*RangeReport, error) {
	if to.Before(from) {
		return nil, apperror.NewValidation("date range is inverted")
	}

	report := &RangeReport{From: from, To: to, TotalSales: types.ZeroMoney()}

	err := s.rotx.RunReadOnly(ctx, func(ctx context.Context) error {
		days, err := s.repo.DailySeries(ctx, from, to)
		if err != nil {
			return err
		}
		report.Days = days
		for _, d := range days {
			report.TotalSales = report.TotalSales.Add(d.TotalSales)
			report.OrderCount += d.OrderCount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// CustomerBalances returns the full ledger snapshot.
func (s *Service) CustomerBalances(ctx context.Context) ([]CustomerBalance, error) {
	return s.repo.CustomerBalances(ctx)
}
