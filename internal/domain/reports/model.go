// Package reports provides read-only sales projections. No engine logic
// lives here: everything is computed from settled orders and summaries.
package reports

import (
	"time"

	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
)

// DailyBucket is aggregated sales for one business date.
type DailyBucket struct {
	Date       time.Time   `db:"sales_date" json:"date"`
	TotalSales types.Money `db:"total_sales" json:"totalSales"`
	OrderCount int64       `db:"order_count" json:"orderCount"`
}

// MonthlyBucket is aggregated sales for one calendar month.
type MonthlyBucket struct {
	Month      time.Time   `db:"month" json:"month"`
	TotalSales types.Money `db:"total_sales" json:"totalSales"`
	OrderCount int64       `db:"order_count" json:"orderCount"`
}

// RangeReport aggregates sales over an inclusive date range.
type RangeReport struct {
	From       time.Time     `json:"from"`
	To         time.Time     `json:"to"`
	TotalSales types.Money   `json:"totalSales"`
	OrderCount int64         `json:"orderCount"`
	Days       []DailyBucket `json:"days"`
}

// CustomerBalance is one ledger row.
type CustomerBalance struct {
	CustomerID id.ID       `db:"id" json:"customerId"`
	Name       string      `db:"name" json:"name"`
	Phone      string      `db:"phone" json:"phone,omitempty"`
	Balance    types.Money `db:"balance" json:"balance"`
}
