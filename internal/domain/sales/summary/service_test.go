package summary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fowlpos/internal/core/types"
)

// memRepo keeps summaries and a parallel "orders" ledger in memory so
// incremental and rebuilt totals can be compared.
type memRepo struct {
	summaries map[string]types.Money
	orders    map[string][]types.Money
}

func newMemRepo() *memRepo {
	return &memRepo{
		summaries: make(map[string]types.Money),
		orders:    make(map[string][]types.Money),
	}
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

func (r *memRepo) AddToDate(ctx context.Context, date time.Time, amount types.Money) error {
	key := dateKey(date)
	r.summaries[key] = r.summaries[key].Add(amount)
	r.orders[key] = append(r.orders[key], amount)
	return nil
}

func (r *memRepo) Overwrite(ctx context.Context, date time.Time, total types.Money) error {
	r.summaries[dateKey(date)] = total
	return nil
}

func (r *memRepo) GetForDate(ctx context.Context, date time.Time) (*DailySalesSummary, error) {
	total, ok := r.summaries[dateKey(date)]
	if !ok {
		return nil, nil
	}
	return &DailySalesSummary{SalesDate: date, TotalSales: total}, nil
}

func (r *memRepo) SumOrdersForDate(ctx context.Context, date time.Time) (types.Money, error) {
	sum := types.ZeroMoney()
	for _, amount := range r.orders[dateKey(date)] {
		sum = sum.Add(amount)
	}
	return sum, nil
}

func TestRecordSale_AccumulatesPerDay(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RecordSale(ctx, day, types.MustMoney("3200.00")))
	require.NoError(t, svc.RecordSale(ctx, day, types.MustMoney("840.00")))
	require.NoError(t, svc.RecordSale(ctx, day.AddDate(0, 0, 1), types.MustMoney("100.00")))

	row, err := svc.GetForDate(ctx, day)
	require.NoError(t, err)
	assert.True(t, row.TotalSales.Equal(types.MustMoney("4040.00")), "total = %s", row.TotalSales)
}

func TestRecordSale_TruncatesTimeOfDay(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	morning := time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 19, 40, 0, 0, time.UTC)
	require.NoError(t, svc.RecordSale(ctx, morning, types.MustMoney("100")))
	require.NoError(t, svc.RecordSale(ctx, evening, types.MustMoney("200")))

	row, err := svc.GetForDate(ctx, time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, row.TotalSales.Equal(types.MustMoney("300")))
}

func TestGetForDate_EmptyDayIsZeroRow(t *testing.T) {
	svc := NewService(newMemRepo())
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	row, err := svc.GetForDate(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.TotalSales.IsZero())
	assert.True(t, row.SalesDate.Equal(day))
}

func TestRebuild_MatchesIncrementalTotal(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	for _, amount := range []string{"3200.00", "840.00", "275.50"} {
		require.NoError(t, svc.RecordSale(ctx, day, types.MustMoney(amount)))
	}

	// Corrupt the cached row, then rebuild from the order ledger.
	require.NoError(t, repo.Overwrite(ctx, day, types.MustMoney("1.00")))

	row, err := svc.Rebuild(ctx, day)
	require.NoError(t, err)
	assert.True(t, row.TotalSales.Equal(types.MustMoney("4315.50")), "total = %s", row.TotalSales)

	stored, err := svc.GetForDate(ctx, day)
	require.NoError(t, err)
	assert.True(t, stored.TotalSales.Equal(types.MustMoney("4315.50")))
}
