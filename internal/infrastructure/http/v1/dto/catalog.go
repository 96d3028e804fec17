package dto

// CreateProductRequest creates a catalog product.
type CreateProductRequest struct {
	Name  string `json:"name" binding:"required"`
	Unit  string `json:"unit"`
	Price string `json:"price" binding:"required"`
}

// UpdatePriceRequest changes a product's catalog price.
type UpdatePriceRequest struct {
	Price   string `json:"price" binding:"required"`
	Version int    `json:"version" binding:"required,min=1"`
}

// CreateCustomerRequest creates a ledger customer.
type CreateCustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone"`
	StartingBalance string `json:"startingBalance"`
}
