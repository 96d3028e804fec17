// Package receipt implements the immutable receipt store.
package receipt

import (
	"time"

	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/sales/order"
)

// Receipt is a frozen snapshot of a settled sale. Every monetary and
// descriptive field is copied by value at settlement time so later edits
// to products or customers never change what was printed.
type Receipt struct {
	ID                id.ID               `db:"id" json:"id"`
	OrderID           id.ID               `db:"order_id" json:"orderId"`
	CustomerID        id.ID               `db:"customer_id" json:"customerId"`
	ReceiptNumber     string              `db:"receipt_number" json:"receiptNumber"` // RCPT-YYYYMMDD-NNNNNN
	CustomerName      string              `db:"customer_name" json:"customerName"`
	PreviousBalance   types.Money         `db:"previous_balance" json:"previousBalance"`
	CurrentBillAmount types.Money         `db:"current_bill_amount" json:"currentBillAmount"`
	PaymentMade       types.Money         `db:"payment_made" json:"paymentMade"`
	ThisBillBalance   types.Money         `db:"this_bill_balance" json:"thisBillBalance"` // max(0, bill - payment)
	UpdatedBalance    types.Money         `db:"updated_balance" json:"updatedBalance"`
	PaymentMethod     order.PaymentMethod `db:"payment_method" json:"paymentMethod"`
	PaymentStatus     order.PaymentStatus `db:"payment_status" json:"paymentStatus"`
	StoreName         string              `db:"store_name" json:"storeName"`
	StoreAddress      string              `db:"store_address" json:"storeAddress"`
	StorePhone        string              `db:"store_phone" json:"storePhone"`
	IssuedAt          time.Time           `db:"issued_at" json:"issuedAt"`
	ReprintCount      int                 `db:"reprint_count" json:"reprintCount"`
	LastReprintedAt   *time.Time          `db:"last_reprinted_at" json:"lastReprintedAt,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// Item is one printed receipt line. Product name, unit and price are
// copied, not referenced.
type Item struct {
	ID          id.ID       `db:"id" json:"id"`
	ReceiptID   id.ID       `db:"receipt_id" json:"receiptId"`
	LineNo      int         `db:"line_no" json:"lineNo"`
	ProductName string      `db:"product_name" json:"productName"`
	Unit        string      `db:"unit" json:"unit"`
	Quantity    types.Money `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal   types.Money `db:"line_total" json:"lineTotal"`
}
