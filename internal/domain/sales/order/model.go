// Package order defines settled orders and their payment taxonomy.
package order

import (
	"time"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
)

// PaymentMethod is how the customer paid. Closed set: unknown values are
// rejected at the boundary, never stored.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCredit        PaymentMethod = "credit"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
)

// Valid reports whether the method is a member of the closed set.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCredit, PaymentMethodBankTransfer, PaymentMethodDigitalWallet:
		return true
	}
	return false
}

// PaymentStatus records how much of the bill was covered at the counter.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// Valid reports whether the status is a member of the closed set.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPartial, PaymentStatusUnpaid:
		return true
	}
	return false
}

// Order is an immutable record of a settled sale. There are no update
// operations: corrections happen through new orders.
type Order struct {
	ID            id.ID         `db:"id" json:"id"`
	CustomerID    id.ID         `db:"customer_id" json:"customerId"`
	Total         types.Money   `db:"total" json:"total"`
	OrderDate     time.Time     `db:"order_date" json:"orderDate"` // business date, explicit, never the server clock
	PaymentAmount types.Money   `db:"payment_amount" json:"paymentAmount"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	BalanceDue    types.Money   `db:"balance_due" json:"balanceDue"` // max(0, total - payment), informational
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}

// Item is one line of an order with the effective unit price captured at
// settlement time.
type Item struct {
	ID        id.ID       `db:"id" json:"id"`
	OrderID   id.ID       `db:"order_id" json:"orderId"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	LineNo    int         `db:"line_no" json:"lineNo"`
	Quantity  types.Money `db:"quantity" json:"quantity"`
	Price     types.Money `db:"price" json:"price"` // catalog price x factor
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// Validate checks order invariants before persistence.
func (o *Order) Validate() error {
	if id.IsNil(o.CustomerID) {
		return apperror.NewValidation("order customer is required")
	}
	if o.Total.IsNegative() {
		return apperror.NewValidation("order total must not be negative")
	}
	if !o.PaymentMethod.Valid() {
		return apperror.NewValidation("unknown payment method").
			WithDetail("paymentMethod", string(o.PaymentMethod))
	}
	if !o.PaymentStatus.Valid() {
		return apperror.NewValidation("unknown payment status").
			WithDetail("paymentStatus", string(o.PaymentStatus))
	}
	return nil
}
