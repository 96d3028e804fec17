// Package customer implements the customer ledger.
package customer

import (
	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/entity"
	"fowlpos/internal/core/types"
)

// Customer holds identity plus a running signed balance.
// Positive balance: the customer owes the store. Negative: store owes
// the customer (overpayment). The balance is mutated only by settlement,
// as an atomic in-database increment.
type Customer struct {
	entity.BaseEntity
	Name    string      `db:"name" json:"name"`
	Phone   string      `db:"phone" json:"phone,omitempty"`
	Balance types.Money `db:"balance" json:"balance"`
}

// New creates a Customer with an explicit starting balance.
func New(name, phone string, startingBalance types.Money) *Customer {
	return &Customer{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
		Balance:    startingBalance,
	}
}

// Validate checks invariants before persistence.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return apperror.NewValidation("customer name is required")
	}
	return nil
}
