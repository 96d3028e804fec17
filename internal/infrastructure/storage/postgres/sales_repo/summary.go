package sales_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/sales/summary"
	"fowlpos/internal/infrastructure/storage/postgres"
)

// SummaryRepo persists per-day sales aggregates.
type SummaryRepo struct {
	txManager *postgres.TxManager
}

// NewSummaryRepo creates a summary repository.
func NewSummaryRepo(txManager *postgres.TxManager) *SummaryRepo {
	return &SummaryRepo{txManager: txManager}
}

// AddToDate upserts the summary row for date, incrementing total_sales.
func (r *SummaryRepo) AddToDate(ctx context.Context, date time.Time, amount types.Money) error {
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO daily_sales_summaries (sales_date, total_sales, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (sales_date) DO UPDATE SET
			total_sales = daily_sales_summaries.total_sales + EXCLUDED.total_sales,
			updated_at = now()
	`, date, amount)
	if err != nil {
		return postgres.MapError(err, "daily_sales_summaries")
	}
	return nil
}

// Overwrite replaces the summary row for date with an absolute value.
func (r *SummaryRepo) Overwrite(ctx context.Context, date time.Time, total types.Money) error {
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO daily_sales_summaries (sales_date, total_sales, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (sales_date) DO UPDATE SET
			total_sales = EXCLUDED.total_sales,
			updated_at = now()
	`, date, total)
	if err != nil {
		return postgres.MapError(err, "daily_sales_summaries")
	}
	return nil
}

// GetForDate returns the summary row, or nil when no sales were recorded.
func (r *SummaryRepo) GetForDate(ctx context.Context, date time.Time) (*summary.DailySalesSummary, error) {
	var s summary.DailySalesSummary
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s, `
		SELECT sales_date, total_sales, updated_at
		FROM daily_sales_summaries
		WHERE sales_date = $1
	`, date)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return &s, nil
}

// SumOrdersForDate recomputes the day total from the orders table.
func (r *SummaryRepo) SumOrdersForDate(ctx context.Context, date time.Time) (types.Money, error) {
	var total types.Money
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &total, `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE order_date = $1
	`, date)
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("sum orders: %w", err)
	}
	return total, nil
}
