package dto

import (
	"fowlpos/internal/domain/sales/order"
	"fowlpos/internal/domain/sales/receipt"
	"fowlpos/internal/domain/sales/settlement"
)

// SettleLineRequest is one cart line.
type SettleLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
	Factor    string `json:"factor"` // optional, defaults to 1
}

// SettleOrderRequest is the settlement request body.
type SettleOrderRequest struct {
	CustomerID    string              `json:"customerId" binding:"required"`
	Date          string              `json:"date"` // YYYY-MM-DD, defaults to today
	Lines         []SettleLineRequest `json:"lines" binding:"required"`
	Total         string              `json:"total" binding:"required"` // terminal-computed, verified server-side
	PaymentAmount string              `json:"paymentAmount" binding:"required"`
	PaymentMethod string              `json:"paymentMethod" binding:"required"`
	PaymentStatus string              `json:"paymentStatus"` // derived when omitted
}

// SettleOrderResponse is returned on successful settlement.
type SettleOrderResponse struct {
	Order      *order.Order     `json:"order"`
	Items      []order.Item     `json:"items"`
	Receipt    *receipt.Receipt `json:"receipt"`
	NewBalance string           `json:"newBalance"`
}

// NewSettleOrderResponse builds the response from the engine result.
func NewSettleOrderResponse(res *settlement.SettledOrder) SettleOrderResponse {
	return SettleOrderResponse{
		Order:      res.Order,
		Items:      res.Items,
		Receipt:    res.Receipt,
		NewBalance: res.NewBalance.String(),
	}
}

// OrderResponse wraps an order with its lines.
type OrderResponse struct {
	Order *order.Order `json:"order"`
	Items []order.Item `json:"items"`
}
