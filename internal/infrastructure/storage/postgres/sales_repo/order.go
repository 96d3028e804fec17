// Package sales_repo provides PostgreSQL repositories for settled sales.
package sales_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/domain/sales/order"
	"fowlpos/internal/infrastructure/storage/postgres"
)

var orderCols = postgres.ExtractDBColumns[order.Order]()
var orderItemCols = postgres.ExtractDBColumns[order.Item]()

// OrderRepo persists settled orders. Orders are append-only: there is no
// Update and no Delete.
type OrderRepo struct {
	txManager *postgres.TxManager
}

// NewOrderRepo creates an order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{txManager: txManager}
}

func (r *OrderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the order header and all its lines.
func (r *OrderRepo) Create(ctx context.Context, o *order.Order, items []order.Item) error {
	querier := r.txManager.GetQuerier(ctx)

	q := r.builder().
		Insert("orders").
		SetMap(postgres.StructToMap(o))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build order insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "orders")
	}

	for i := range items {
		iq := r.builder().
			Insert("order_items").
			SetMap(postgres.StructToMap(&items[i]))

		sql, args, err := iq.ToSql()
		if err != nil {
			return fmt.Errorf("build order item insert: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return postgres.MapError(err, "order_items")
		}
	}

	return nil
}

// GetByID returns the order header.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*order.Order, error) {
	q := r.builder().
		Select(orderCols...).
		From("orders").
		Where(squirrel.Eq{"id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o order.Order
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("orders", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// GetItems returns the order lines in line order.
func (r *OrderRepo) GetItems(ctx context.Context, orderID id.ID) ([]order.Item, error) {
	q := r.builder().
		Select(orderItemCols...).
		From("order_items").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []order.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	return items, nil
}
