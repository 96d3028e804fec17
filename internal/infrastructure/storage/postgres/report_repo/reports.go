// Package report_repo provides read-only report queries over settled sales.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"fowlpos/internal/domain/reports"
	"fowlpos/internal/infrastructure/storage/postgres"
)

// ReportRepo runs aggregate queries directly against orders and customers.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// MonthlySeries groups order totals by calendar month.
func (r *ReportRepo) MonthlySeries(ctx context.Context, from, to time.Time) ([]reports.MonthlyBucket, error) {
	var buckets []reports.MonthlyBucket
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &buckets, `
		SELECT date_trunc('month', order_date) AS month,
		       COALESCE(SUM(total), 0)         AS total_sales,
		       COUNT(*)                        AS order_count
		FROM orders
		WHERE order_date BETWEEN $1 AND $2
		GROUP BY 1
		ORDER BY 1
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	return buckets, nil
}

// DailySeries groups order totals by business date.
func (r *ReportRepo) DailySeries(ctx context.Context, from, to time.Time) ([]reports.DailyBucket, error) {
	var buckets []reports.DailyBucket
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &buckets, `
		SELECT order_date                AS sales_date,
		       COALESCE(SUM(total), 0)  AS total_sales,
		       COUNT(*)                 AS order_count
		FROM orders
		WHERE order_date BETWEEN $1 AND $2
		GROUP BY 1
		ORDER BY 1
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	return buckets, nil
}

// CustomerBalances lists active customers with their current balances,
// largest debt first.
func (r *ReportRepo) CustomerBalances(ctx context.Context) ([]reports.CustomerBalance, error) {
	var rows []reports.CustomerBalance
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, `
		SELECT id, name, phone, balance
		FROM customers
		WHERE deletion_mark = false
		ORDER BY balance DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("customer balances: %w", err)
	}
	return rows, nil
}
