package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/catalogs/customer"
	"fowlpos/internal/infrastructure/storage/postgres"
)

// CustomerRepo persists customers and their running balances.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
	txManager *postgres.TxManager
}

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"customers",
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
		txManager: txManager,
	}
}

// ApplyDelta atomically shifts the customer balance and returns the new
// value. The increment happens in SQL, never read-modify-write in Go:
// under serializable isolation this is what makes concurrent settlements
// against one customer converge instead of clobbering each other.
func (r *CustomerRepo) ApplyDelta(ctx context.Context, customerID id.ID, delta types.Money) (types.Money, error) {
	var newBalance types.Money
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &newBalance, `
		UPDATE customers
		SET balance = balance + $1,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $2
		RETURNING balance
	`, delta, customerID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return types.ZeroMoney(), apperror.NewNotFound("customers", customerID.String())
		}
		return types.ZeroMoney(), fmt.Errorf("apply balance delta: %w", err)
	}
	return newBalance, nil
}
