package sales_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/domain/sales/receipt"
	"fowlpos/internal/infrastructure/storage/postgres"
)

var receiptCols = postgres.ExtractDBColumns[receipt.Receipt]()
var receiptItemCols = postgres.ExtractDBColumns[receipt.Item]()

// ReceiptRepo persists receipts. Monetary columns are written once at
// settlement and never updated; reprint only touches the reprint counters.
type ReceiptRepo struct {
	txManager *postgres.TxManager
}

// NewReceiptRepo creates a receipt repository.
func NewReceiptRepo(txManager *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{txManager: txManager}
}

func (r *ReceiptRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the receipt and its lines.
func (r *ReceiptRepo) Create(ctx context.Context, rc *receipt.Receipt) error {
	querier := r.txManager.GetQuerier(ctx)

	q := r.builder().
		Insert("receipts").
		SetMap(postgres.StructToMap(rc))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build receipt insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "receipts")
	}

	for i := range rc.Items {
		iq := r.builder().
			Insert("receipt_items").
			SetMap(postgres.StructToMap(&rc.Items[i]))

		sql, args, err := iq.ToSql()
		if err != nil {
			return fmt.Errorf("build receipt item insert: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return postgres.MapError(err, "receipt_items")
		}
	}

	return nil
}

// GetByID returns a receipt with its lines.
func (r *ReceiptRepo) GetByID(ctx context.Context, receiptID id.ID) (*receipt.Receipt, error) {
	return r.getOne(ctx, squirrel.Eq{"id": receiptID}, receiptID.String())
}

// GetByOrderID returns the receipt issued for an order.
func (r *ReceiptRepo) GetByOrderID(ctx context.Context, orderID id.ID) (*receipt.Receipt, error) {
	return r.getOne(ctx, squirrel.Eq{"order_id": orderID}, orderID.String())
}

func (r *ReceiptRepo) getOne(ctx context.Context, cond squirrel.Eq, key string) (*receipt.Receipt, error) {
	q := r.builder().
		Select(receiptCols...).
		From("receipts").
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rc receipt.Receipt
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &rc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("receipts", key)
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	items, err := r.getItems(ctx, rc.ID)
	if err != nil {
		return nil, err
	}
	rc.Items = items

	return &rc, nil
}

func (r *ReceiptRepo) getItems(ctx context.Context, receiptID id.ID) ([]receipt.Item, error) {
	q := r.builder().
		Select(receiptItemCols...).
		From("receipt_items").
		Where(squirrel.Eq{"receipt_id": receiptID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []receipt.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get receipt items: %w", err)
	}
	return items, nil
}

// ListByCustomer returns a customer's receipts, newest first, without lines.
func (r *ReceiptRepo) ListByCustomer(ctx context.Context, customerID id.ID, limit, offset int) ([]receipt.Receipt, error) {
	q := r.builder().
		Select(receiptCols...).
		From("receipts").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("issued_at DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var receipts []receipt.Receipt
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &receipts, sql, args...); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

// MarkReprint bumps the reprint counter and timestamp. Monetary columns
// are deliberately not in the SET list.
func (r *ReceiptRepo) MarkReprint(ctx context.Context, receiptID id.ID) error {
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE receipts
		SET reprint_count = reprint_count + 1,
		    last_reprinted_at = now()
		WHERE id = $1
	`, receiptID)
	if err != nil {
		return fmt.Errorf("mark reprint: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("receipts", receiptID.String())
	}
	return nil
}
