package catalog_repo

import (
	"fowlpos/internal/domain/catalogs/product"
	"fowlpos/internal/infrastructure/storage/postgres"
)

// ProductRepo persists products.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"products",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}
