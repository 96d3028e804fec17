// Package summary maintains per-day sales aggregates.
package summary

import (
	"time"

	"fowlpos/internal/core/types"
)

// DailySalesSummary is one upserted row per business date.
// It is a cache over orders: Rebuild reconstructs it from source of truth.
type DailySalesSummary struct {
	SalesDate  time.Time   `db:"sales_date" json:"salesDate"`
	TotalSales types.Money `db:"total_sales" json:"totalSales"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updatedAt"`
}
