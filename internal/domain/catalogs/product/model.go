// Package product implements the price catalog.
package product

import (
	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/entity"
	"fowlpos/internal/core/types"
)

// Product is a sellable item with its current unit price.
// Price edits never touch history: issued receipts carry values by copy.
type Product struct {
	entity.BaseEntity
	Name  string      `db:"name" json:"name"`
	Unit  string      `db:"unit" json:"unit"` // "kg", "pc", ...
	Price types.Money `db:"price" json:"price"`
}

// New creates a Product with defaults applied.
func New(name, unit string, price types.Money) *Product {
	if unit == "" {
		unit = "pc"
	}
	return &Product{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Unit:       unit,
		Price:      price,
	}
}

// Validate checks invariants before persistence.
func (p *Product) Validate() error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("product price must not be negative").
			WithDetail("price", p.Price.String())
	}
	return nil
}
