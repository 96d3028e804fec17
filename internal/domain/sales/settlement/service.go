// Package settlement implements the order settlement engine: the single
// write path that turns a cart into an order, a balance movement, a
// receipt and a daily aggregate, atomically.
package settlement

import (
	"context"
	"time"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/core/tx"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/catalogs/customer"
	"fowlpos/internal/domain/catalogs/product"
	"fowlpos/internal/domain/sales/order"
	"fowlpos/internal/domain/sales/receipt"
	"fowlpos/pkg/logger"
)

// maxRetries bounds automatic retries on serialization failures before
// the conflict is surfaced to the caller.
const maxRetries = 3

// LineRequest is one cart line as submitted by the terminal.
type LineRequest struct {
	ProductID id.ID
	Quantity  types.Money
	// Factor scales the catalog price for this line (bulk discounts,
	// special cuts). Zero means "not set" and defaults to 1.
	Factor types.Money
}

// SettleRequest is a complete settlement request.
type SettleRequest struct {
	CustomerID id.ID
	// Date is the business date of the sale. Always explicit: backdated
	// entry is a feature, the server clock is not a source of truth.
	Date          time.Time
	Lines         []LineRequest
	ClientTotal   types.Money // total as computed by the terminal
	PaymentAmount types.Money
	PaymentMethod order.PaymentMethod
	PaymentStatus order.PaymentStatus // derived from amounts when empty
}

// SettledOrder is the result of a successful settlement.
type SettledOrder struct {
	Order      *order.Order
	Items      []order.Item
	Receipt    *receipt.Receipt
	NewBalance types.Money
}

// StoreInfo is frozen onto every receipt.
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
}

// CustomerStore is the slice of the customer repository the engine needs.
type CustomerStore interface {
	GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error)
	ApplyDelta(ctx context.Context, customerID id.ID, delta types.Money) (types.Money, error)
}

// ProductStore resolves products at settlement time.
type ProductStore interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// OrderStore persists settled orders.
type OrderStore interface {
	Create(ctx context.Context, o *order.Order, items []order.Item) error
}

// ReceiptStore persists receipts.
type ReceiptStore interface {
	Create(ctx context.Context, rc *receipt.Receipt) error
}

// SummaryRecorder folds settled totals into the daily aggregate.
type SummaryRecorder interface {
	RecordSale(ctx context.Context, date time.Time, amount types.Money) error
}

// ReceiptNumberAllocator hands out the next receipt number for a business
// date. The allocation must join the surrounding transaction so a rolled
// back settlement releases its number.
type ReceiptNumberAllocator interface {
	NextReceiptNumber(ctx context.Context, date time.Time) (string, error)
}

// Service is the settlement engine.
type Service struct {
	txManager tx.Manager
	customers CustomerStore
	products  ProductStore
	orders    OrderStore
	receipts  ReceiptStore
	summary   SummaryRecorder
	numbers   ReceiptNumberAllocator
	store     StoreInfo
}

// NewService wires the settlement engine.
func NewService(
	txManager tx.Manager,
	customers CustomerStore,
	products ProductStore,
	orders OrderStore,
	receipts ReceiptStore,
	summary SummaryRecorder,
	numbers ReceiptNumberAllocator,
	store StoreInfo,
) *Service {
	return &Service{
		txManager: txManager,
		customers: customers,
		products:  products,
		orders:    orders,
		receipts:  receipts,
		summary:   summary,
		numbers:   numbers,
		store:     store,
	}
}

// Settle validates and settles an order. Everything after validation runs
// in one serializable transaction: order, items, balance movement,
// receipt with number, and the daily aggregate commit together or not at
// all. A sale without a receipt must not exist.
func (s *Service) Settle(ctx context.Context, req SettleRequest) (*SettledOrder, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	var result *SettledOrder
	var err error
	for attempt := 0; ; attempt++ {
		result, err = s.settleOnce(ctx, req)
		if err == nil {
			return result, nil
		}
		if !apperror.IsRetryable(err) || attempt >= maxRetries-1 {
			return nil, err
		}
		logger.Warn(ctx, "settlement retry after conflict",
			"customer_id", req.CustomerID, "attempt", attempt+1, "error", err)
	}
}

// validate performs the pure, fail-fast checks. First violation wins and
// nothing has been persisted yet.
func (s *Service) validate(req *SettleRequest) error {
	if id.IsNil(req.CustomerID) {
		return apperror.NewValidation("customer is required")
	}
	if req.Date.IsZero() {
		return apperror.NewValidation("order date is required")
	}
	if len(req.Lines) == 0 {
		return apperror.NewEmptyOrder()
	}

	for i := range req.Lines {
		line := &req.Lines[i]
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewInvalidQuantity(i+1, "quantity", line.Quantity.String())
		}
		if line.Factor.IsZero() {
			line.Factor = types.NewMoney(1)
		}
		if !line.Factor.IsPositive() {
			return apperror.NewInvalidQuantity(i+1, "factor", line.Factor.String())
		}
	}

	if req.PaymentAmount.IsNegative() {
		return apperror.NewValidation("payment amount must not be negative").
			WithDetail("paymentAmount", req.PaymentAmount.String())
	}
	if !req.PaymentMethod.Valid() {
		return apperror.NewValidation("unknown payment method").
			WithDetail("paymentMethod", string(req.PaymentMethod))
	}
	if req.PaymentStatus != "" && !req.PaymentStatus.Valid() {
		return apperror.NewValidation("unknown payment status").
			WithDetail("paymentStatus", string(req.PaymentStatus))
	}

	return nil
}

func (s *Service) settleOnce(ctx context.Context, req SettleRequest) (*SettledOrder, error) {
	var result *SettledOrder

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		// Lock the customer row first. This serializes settlements per
		// customer and pins previousBalance for the receipt.
		cust, err := s.customers.GetForUpdate(ctx, req.CustomerID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewUnknownCustomer(req.CustomerID.String())
			}
			return err
		}
		previousBalance := cust.Balance

		orderID := id.New()
		orderTotal := types.ZeroMoney()
		items := make([]order.Item, 0, len(req.Lines))
		receiptItems := make([]receipt.Item, 0, len(req.Lines))

		for i, line := range req.Lines {
			p, err := s.products.GetByID(ctx, line.ProductID)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewUnknownProduct(line.ProductID.String())
				}
				return err
			}

			effectivePrice := p.Price.Mul(line.Factor)
			lineTotal := effectivePrice.Mul(line.Quantity)
			orderTotal = orderTotal.Add(lineTotal)

			items = append(items, order.Item{
				ID:        id.New(),
				OrderID:   orderID,
				ProductID: p.ID,
				LineNo:    i + 1,
				Quantity:  line.Quantity,
				Price:     effectivePrice,
				LineTotal: lineTotal,
			})
			receiptItems = append(receiptItems, receipt.Item{
				ID:          id.New(),
				LineNo:      i + 1,
				ProductName: p.Name,
				Unit:        p.Unit,
				Quantity:    line.Quantity,
				UnitPrice:   effectivePrice,
				LineTotal:   lineTotal,
			})
		}

		if !types.WithinTolerance(orderTotal, req.ClientTotal) {
			return apperror.NewTotalMismatch(orderTotal.String(), req.ClientTotal.String())
		}

		status := req.PaymentStatus
		if status == "" {
			status = deriveStatus(orderTotal, req.PaymentAmount)
		}

		balanceDue := orderTotal.Sub(req.PaymentAmount)
		if balanceDue.IsNegative() {
			balanceDue = types.ZeroMoney()
		}

		o := &order.Order{
			ID:            orderID,
			CustomerID:    cust.ID,
			Total:         orderTotal,
			OrderDate:     truncateToDate(req.Date),
			PaymentAmount: req.PaymentAmount,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: status,
			BalanceDue:    balanceDue,
			CreatedAt:     time.Now().UTC(),
		}
		if err := o.Validate(); err != nil {
			return err
		}
		if err := s.orders.Create(ctx, o, items); err != nil {
			return err
		}

		// netChange > 0 grows the debt, < 0 records an overpayment
		netChange := orderTotal.Sub(req.PaymentAmount)
		newBalance, err := s.customers.ApplyDelta(ctx, cust.ID, netChange)
		if err != nil {
			return err
		}

		number, err := s.numbers.NextReceiptNumber(ctx, o.OrderDate)
		if err != nil {
			return err
		}

		rc := &receipt.Receipt{
			ID:                id.New(),
			OrderID:           orderID,
			CustomerID:        cust.ID,
			ReceiptNumber:     number,
			CustomerName:      cust.Name,
			PreviousBalance:   previousBalance,
			CurrentBillAmount: orderTotal,
			PaymentMade:       req.PaymentAmount,
			ThisBillBalance:   balanceDue,
			UpdatedBalance:    newBalance,
			PaymentMethod:     req.PaymentMethod,
			PaymentStatus:     status,
			StoreName:         s.store.Name,
			StoreAddress:      s.store.Address,
			StorePhone:        s.store.Phone,
			IssuedAt:          time.Now().UTC(),
		}
		for i := range receiptItems {
			receiptItems[i].ReceiptID = rc.ID
		}
		rc.Items = receiptItems

		if err := s.receipts.Create(ctx, rc); err != nil {
			return err
		}

		if err := s.summary.RecordSale(ctx, o.OrderDate, orderTotal); err != nil {
			return err
		}

		result = &SettledOrder{
			Order:      o,
			Items:      items,
			Receipt:    rc,
			NewBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order settled",
		"order_id", result.Order.ID,
		"customer_id", result.Order.CustomerID,
		"total", result.Order.Total,
		"receipt_number", result.Receipt.ReceiptNumber,
		"new_balance", result.NewBalance,
	)
	return result, nil
}

// deriveStatus infers payment status when the terminal omits it.
func deriveStatus(total, paid types.Money) order.PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total) && total.IsPositive():
		return order.PaymentStatusPaid
	case paid.IsPositive():
		return order.PaymentStatusPartial
	case total.IsZero():
		return order.PaymentStatusPaid
	default:
		return order.PaymentStatusUnpaid
	}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
