package settlement

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/entity"
	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/catalogs/customer"
	"fowlpos/internal/domain/catalogs/product"
	"fowlpos/internal/domain/sales/order"
	"fowlpos/internal/domain/sales/receipt"
)

// fakeStore is an in-memory stand-in for the storage layer. All the
// consumer interfaces of the engine write into it, and fakeTxManager
// snapshots/restores it so rollback semantics can be asserted.
type fakeStore struct {
	customers map[id.ID]*customer.Customer
	products  map[id.ID]*product.Product
	orders    []*order.Order
	items     [][]order.Item
	receipts  []*receipt.Receipt
	summaries map[string]types.Money
	nextSeq   int64

	failOrderCreate   error
	failReceiptCreate error
	failApplyDelta    []error // consumed one per call
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: make(map[id.ID]*customer.Customer),
		products:  make(map[id.ID]*product.Product),
		summaries: make(map[string]types.Money),
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.customers {
		c := *v
		cp.customers[k] = &c
	}
	for k, v := range s.products {
		p := *v
		cp.products[k] = &p
	}
	cp.orders = append([]*order.Order(nil), s.orders...)
	cp.items = append([][]order.Item(nil), s.items...)
	cp.receipts = append([]*receipt.Receipt(nil), s.receipts...)
	for k, v := range s.summaries {
		cp.summaries[k] = v
	}
	cp.nextSeq = s.nextSeq
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.customers = snap.customers
	s.products = snap.products
	s.orders = snap.orders
	s.items = snap.items
	s.receipts = snap.receipts
	s.summaries = snap.summaries
	s.nextSeq = snap.nextSeq
}

// fakeTxManager rolls the fake store back when the transactional
// function fails, mirroring a real database transaction.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

func (m *fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

// --- consumer interface fakes backed by fakeStore ---

type fakeCustomers struct{ store *fakeStore }

func (f *fakeCustomers) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := f.store.customers[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customers", customerID.String())
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) ApplyDelta(ctx context.Context, customerID id.ID, delta types.Money) (types.Money, error) {
	if len(f.store.failApplyDelta) > 0 {
		err := f.store.failApplyDelta[0]
		f.store.failApplyDelta = f.store.failApplyDelta[1:]
		if err != nil {
			return types.ZeroMoney(), err
		}
	}
	c, ok := f.store.customers[customerID]
	if !ok {
		return types.ZeroMoney(), apperror.NewNotFound("customers", customerID.String())
	}
	c.Balance = c.Balance.Add(delta)
	return c.Balance, nil
}

type fakeProducts struct{ store *fakeStore }

func (f *fakeProducts) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := f.store.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("products", productID.String())
	}
	cp := *p
	return &cp, nil
}

type fakeOrders struct{ store *fakeStore }

func (f *fakeOrders) Create(ctx context.Context, o *order.Order, items []order.Item) error {
	if f.store.failOrderCreate != nil {
		return f.store.failOrderCreate
	}
	f.store.orders = append(f.store.orders, o)
	f.store.items = append(f.store.items, items)
	return nil
}

type fakeReceipts struct{ store *fakeStore }

func (f *fakeReceipts) Create(ctx context.Context, rc *receipt.Receipt) error {
	if f.store.failReceiptCreate != nil {
		return f.store.failReceiptCreate
	}
	f.store.receipts = append(f.store.receipts, rc)
	return nil
}

type fakeSummary struct{ store *fakeStore }

func (f *fakeSummary) RecordSale(ctx context.Context, date time.Time, amount types.Money) error {
	key := date.Format("2006-01-02")
	f.store.summaries[key] = f.store.summaries[key].Add(amount)
	return nil
}

type fakeNumbers struct{ store *fakeStore }

func (f *fakeNumbers) NextReceiptNumber(ctx context.Context, date time.Time) (string, error) {
	f.store.nextSeq++
	return fmt.Sprintf("RCPT-%s-%06d", date.Format("20060102"), f.store.nextSeq), nil
}

// flakyNumbers fails with a retryable error a fixed number of times.
type flakyNumbers struct {
	inner     *fakeNumbers
	failures  int
	callCount int
}

func (f *flakyNumbers) NextReceiptNumber(ctx context.Context, date time.Time) (string, error) {
	f.callCount++
	if f.callCount <= f.failures {
		return "", apperror.NewSerialization(errors.New("could not serialize access"))
	}
	return f.inner.NextReceiptNumber(ctx, date)
}

type engineFixture struct {
	store   *fakeStore
	svc     *Service
	numbers ReceiptNumberAllocator
}

func newEngine(t *testing.T) *engineFixture {
	t.Helper()
	store := newFakeStore()
	numbers := &fakeNumbers{store: store}
	fx := &engineFixture{store: store, numbers: numbers}
	fx.svc = NewService(
		&fakeTxManager{store: store},
		&fakeCustomers{store: store},
		&fakeProducts{store: store},
		&fakeOrders{store: store},
		&fakeReceipts{store: store},
		&fakeSummary{store: store},
		numbers,
		StoreInfo{Name: "Fresh Fowl Poultry", Address: "12 Market Rd", Phone: "555-0101"},
	)
	return fx
}

func (fx *engineFixture) addCustomer(name string, balance string) *customer.Customer {
	c := &customer.Customer{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Balance:    types.MustMoney(balance),
	}
	fx.store.customers[c.ID] = c
	return c
}

func (fx *engineFixture) addProduct(name, unit, price string) *product.Product {
	p := &product.Product{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Unit:       unit,
		Price:      types.MustMoney(price),
	}
	fx.store.products[p.ID] = p
	return p
}

func bizDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSettle_PartialPaymentGrowsBalance(t *testing.T) {
	fx := newEngine(t)
	ahmed := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID: ahmed.ID,
		Date:       bizDate(2026, time.March, 14),
		Lines: []LineRequest{
			{ProductID: chicken.ID, Quantity: types.MustMoney("10"), Factor: types.MustMoney("1")},
		},
		ClientTotal:   types.MustMoney("3200.00"),
		PaymentAmount: types.MustMoney("2000.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.True(t, result.Order.Total.Equal(types.MustMoney("3200.00")), "total = %s", result.Order.Total)
	assert.True(t, result.NewBalance.Equal(types.MustMoney("1200.00")), "balance = %s", result.NewBalance)
	assert.Equal(t, order.PaymentStatusPartial, result.Order.PaymentStatus)
	assert.True(t, result.Order.BalanceDue.Equal(types.MustMoney("1200.00")))

	rc := result.Receipt
	assert.Equal(t, "RCPT-20260314-000001", rc.ReceiptNumber)
	assert.Equal(t, "Ahmed", rc.CustomerName)
	assert.True(t, rc.PreviousBalance.IsZero())
	assert.True(t, rc.CurrentBillAmount.Equal(types.MustMoney("3200.00")))
	assert.True(t, rc.PaymentMade.Equal(types.MustMoney("2000.00")))
	assert.True(t, rc.ThisBillBalance.Equal(types.MustMoney("1200.00")))
	assert.True(t, rc.UpdatedBalance.Equal(types.MustMoney("1200.00")))
	assert.Equal(t, "Fresh Fowl Poultry", rc.StoreName)
	require.Len(t, rc.Items, 1)
	assert.Equal(t, "Live Chicken", rc.Items[0].ProductName)
	assert.True(t, rc.Items[0].UnitPrice.Equal(types.MustMoney("320.00")))

	assert.True(t, fx.store.summaries["2026-03-14"].Equal(types.MustMoney("3200.00")))
	assert.True(t, fx.store.customers[ahmed.ID].Balance.Equal(types.MustMoney("1200.00")))
}

func TestSettle_FactorScalesPrice(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Karim Traders", "0.00")
	duck := fx.addProduct("Duck", "kg", "420.00")

	// 0.5 factor on a wholesale cut: 420 x 0.5 x 4 = 840
	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID: cust.ID,
		Date:       bizDate(2026, time.March, 14),
		Lines: []LineRequest{
			{ProductID: duck.ID, Quantity: types.MustMoney("4"), Factor: types.MustMoney("0.5")},
		},
		ClientTotal:   types.MustMoney("840.00"),
		PaymentAmount: types.MustMoney("840.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.True(t, result.Order.Total.Equal(types.MustMoney("840")))
	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].Price.Equal(types.MustMoney("210")), "effective price = %s", result.Items[0].Price)
	assert.Equal(t, order.PaymentStatusPaid, result.Order.PaymentStatus)
	assert.True(t, result.NewBalance.IsZero())
}

func TestSettle_FactorDefaultsToOne(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	eggs := fx.addProduct("Chicken Eggs", "dozen", "140.00")

	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID: cust.ID,
		Date:       bizDate(2026, time.March, 15),
		Lines: []LineRequest{
			{ProductID: eggs.ID, Quantity: types.MustMoney("2")}, // factor omitted
		},
		ClientTotal:   types.MustMoney("280.00"),
		PaymentAmount: types.MustMoney("280.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, result.Order.Total.Equal(types.MustMoney("280")))
}

func TestSettle_OverpaymentGoesNegative(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID: cust.ID,
		Date:       bizDate(2026, time.March, 14),
		Lines: []LineRequest{
			{ProductID: chicken.ID, Quantity: types.MustMoney("1")},
		},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("500.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Store owes the customer 180; balance due on the bill is clamped at 0.
	assert.True(t, result.NewBalance.Equal(types.MustMoney("-180.00")), "balance = %s", result.NewBalance)
	assert.True(t, result.Order.BalanceDue.IsZero())
	assert.Equal(t, order.PaymentStatusPaid, result.Order.PaymentStatus)
}

func TestSettle_BalanceCarriesAcrossOrders(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "500.00") // pre-existing debt
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	first, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("10")}},
		ClientTotal:   types.MustMoney("3200.00"),
		PaymentAmount: types.MustMoney("2000.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, first.Receipt.PreviousBalance.Equal(types.MustMoney("500")))
	assert.True(t, first.NewBalance.Equal(types.MustMoney("1700")))

	second, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 15),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("2020.00"), // clears everything
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, second.Receipt.PreviousBalance.Equal(types.MustMoney("1700")))
	assert.True(t, second.NewBalance.IsZero(), "balance = %s", second.NewBalance)
}

func TestSettle_EmptyOrderRejected(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")

	_, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeEmptyOrder, appErr.Code)
	assert.Empty(t, fx.store.orders)
}

func TestSettle_InvalidLineValues(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	tests := []struct {
		name string
		line LineRequest
	}{
		{"zero quantity", LineRequest{ProductID: chicken.ID, Quantity: types.MustMoney("0")}},
		{"negative quantity", LineRequest{ProductID: chicken.ID, Quantity: types.MustMoney("-2")}},
		{"negative factor", LineRequest{ProductID: chicken.ID, Quantity: types.MustMoney("1"), Factor: types.MustMoney("-1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.Settle(context.Background(), SettleRequest{
				CustomerID:    cust.ID,
				Date:          bizDate(2026, time.March, 14),
				Lines:         []LineRequest{tt.line},
				ClientTotal:   types.MustMoney("320.00"),
				PaymentAmount: types.MustMoney("0"),
				PaymentMethod: order.PaymentMethodCash,
			})
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
			assert.Equal(t, 1, appErr.Details["lineNo"])
		})
	}
	assert.Empty(t, fx.store.orders)
}

func TestSettle_TotalMismatchPersistsNothing(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	_, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("10")}},
		ClientTotal:   types.MustMoney("3100.00"), // server computes 3200
		PaymentAmount: types.MustMoney("3100.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTotalMismatch, appErr.Code)
	assert.Equal(t, "3200.00", appErr.Details["expected"])

	assert.Empty(t, fx.store.orders)
	assert.Empty(t, fx.store.receipts)
	assert.True(t, fx.store.customers[cust.ID].Balance.IsZero())
	assert.Empty(t, fx.store.summaries)
}

func TestSettle_TotalWithinToleranceAccepted(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	// One cent off is within tolerance.
	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("10")}},
		ClientTotal:   types.MustMoney("3199.99"),
		PaymentAmount: types.MustMoney("3200.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)
	// The server-computed total wins, not the client's.
	assert.True(t, result.Order.Total.Equal(types.MustMoney("3200")))
}

func TestSettle_UnknownCustomerIsBadRequest(t *testing.T) {
	fx := newEngine(t)
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	_, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    id.New(),
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("320.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCustomerNotFound, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestSettle_UnknownProductIsHardFailure(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")

	_, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: id.New(), Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("0"),
		PaymentAmount: types.MustMoney("0"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeProductNotFound, appErr.Code)
	assert.Empty(t, fx.store.orders)
}

func TestSettle_FailureAfterOrderInsertRollsBackEverything(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")
	fx.store.failReceiptCreate = errors.New("disk full")

	_, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("10")}},
		ClientTotal:   types.MustMoney("3200.00"),
		PaymentAmount: types.MustMoney("2000.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.Error(t, err)

	// Order was inserted before the receipt failed; the transaction must
	// have taken it back along with the balance movement.
	assert.Empty(t, fx.store.orders)
	assert.Empty(t, fx.store.receipts)
	assert.True(t, fx.store.customers[cust.ID].Balance.IsZero())
	assert.Empty(t, fx.store.summaries)
}

func TestSettle_RetriesOnSerializationFailure(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	flaky := &flakyNumbers{inner: &fakeNumbers{store: fx.store}, failures: 2}
	fx.svc.numbers = flaky

	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("320.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, flaky.callCount)
	assert.Len(t, fx.store.orders, 1)
	assert.True(t, result.NewBalance.IsZero())
}

func TestSettle_RetryExhaustionSurfacesConflict(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	flaky := &flakyNumbers{inner: &fakeNumbers{store: fx.store}, failures: 10}
	fx.svc.numbers = flaky

	_, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("320.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, maxRetries, flaky.callCount)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSerialization, appErr.Code)
	assert.Empty(t, fx.store.orders)
}

func TestSettle_ExplicitDateIsPreserved(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	// Backdated entry: sale recorded two days after the fact.
	backdate := bizDate(2026, time.January, 5)
	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          backdate.Add(13*time.Hour + 45*time.Minute), // time-of-day noise
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("320.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, result.Order.OrderDate.Equal(backdate), "order date = %s", result.Order.OrderDate)
	assert.True(t, fx.store.summaries["2026-01-05"].Equal(types.MustMoney("320")))
}

func TestSettle_ReceiptSurvivesLaterCatalogAndLedgerEdits(t *testing.T) {
	fx := newEngine(t)
	ahmed := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    ahmed.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("10")}},
		ClientTotal:   types.MustMoney("3200.00"),
		PaymentAmount: types.MustMoney("2000.00"),
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Season price hike, plus a payment recorded against the ledger.
	fx.store.products[chicken.ID].Price = types.MustMoney("999.00")
	_, err = (&fakeCustomers{store: fx.store}).ApplyDelta(context.Background(), ahmed.ID, types.MustMoney("-1200.00"))
	require.NoError(t, err)

	// The persisted receipt holds copies, not references.
	require.Len(t, fx.store.receipts, 1)
	stored := fx.store.receipts[0]
	assert.Equal(t, result.Receipt.ReceiptNumber, stored.ReceiptNumber)
	assert.True(t, stored.PreviousBalance.IsZero())
	assert.True(t, stored.CurrentBillAmount.Equal(types.MustMoney("3200.00")))
	assert.True(t, stored.PaymentMade.Equal(types.MustMoney("2000.00")))
	assert.True(t, stored.ThisBillBalance.Equal(types.MustMoney("1200.00")))
	assert.True(t, stored.UpdatedBalance.Equal(types.MustMoney("1200.00")))
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].UnitPrice.Equal(types.MustMoney("320.00")), "unit price = %s", stored.Items[0].UnitPrice)
	assert.True(t, stored.Items[0].LineTotal.Equal(types.MustMoney("3200.00")))

	// The live rows did move.
	assert.True(t, fx.store.products[chicken.ID].Price.Equal(types.MustMoney("999.00")))
	assert.True(t, fx.store.customers[ahmed.ID].Balance.IsZero())
}

func TestSettle_MultiLineNumberingAndTotals(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Karim Traders", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")
	eggs := fx.addProduct("Chicken Eggs", "dozen", "140.00")
	duck := fx.addProduct("Duck", "kg", "420.00")

	// 2x320 + 3x140 + 1x420 = 1480
	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID: cust.ID,
		Date:       bizDate(2026, time.March, 14),
		Lines: []LineRequest{
			{ProductID: chicken.ID, Quantity: types.MustMoney("2")},
			{ProductID: eggs.ID, Quantity: types.MustMoney("3")},
			{ProductID: duck.ID, Quantity: types.MustMoney("1")},
		},
		ClientTotal:   types.MustMoney("1480.00"),
		PaymentAmount: types.MustMoney("0"),
		PaymentMethod: order.PaymentMethodCredit,
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 3)
	for i, item := range result.Items {
		assert.Equal(t, i+1, item.LineNo)
		assert.Equal(t, result.Order.ID, item.OrderID)
	}
	assert.True(t, result.Order.Total.Equal(types.MustMoney("1480")))
	assert.Equal(t, order.PaymentStatusUnpaid, result.Order.PaymentStatus)
	assert.True(t, result.NewBalance.Equal(types.MustMoney("1480")))
	require.Len(t, result.Receipt.Items, 3)
	for i, item := range result.Receipt.Items {
		assert.Equal(t, i+1, item.LineNo)
		assert.Equal(t, result.Receipt.ID, item.ReceiptID)
	}
}

func TestSettle_ExplicitStatusKept(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	// Terminal says unpaid even though cash covered it (e.g. payment
	// recorded against an older bill). The engine does not second-guess.
	result, err := fx.svc.Settle(context.Background(), SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("320.00"),
		PaymentMethod: order.PaymentMethodCash,
		PaymentStatus: order.PaymentStatusUnpaid,
	})
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusUnpaid, result.Order.PaymentStatus)
}

func TestSettle_RejectsUnknownEnums(t *testing.T) {
	fx := newEngine(t)
	cust := fx.addCustomer("Ahmed", "0.00")
	chicken := fx.addProduct("Live Chicken", "kg", "320.00")

	base := SettleRequest{
		CustomerID:    cust.ID,
		Date:          bizDate(2026, time.March, 14),
		Lines:         []LineRequest{{ProductID: chicken.ID, Quantity: types.MustMoney("1")}},
		ClientTotal:   types.MustMoney("320.00"),
		PaymentAmount: types.MustMoney("320.00"),
	}

	req := base
	req.PaymentMethod = "check"
	_, err := fx.svc.Settle(context.Background(), req)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	req = base
	req.PaymentMethod = order.PaymentMethodCash
	req.PaymentStatus = "settled"
	_, err = fx.svc.Settle(context.Background(), req)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  order.PaymentStatus
	}{
		{"fully paid", "100", "100", order.PaymentStatusPaid},
		{"overpaid", "100", "150", order.PaymentStatusPaid},
		{"partial", "100", "40", order.PaymentStatusPartial},
		{"unpaid", "100", "0", order.PaymentStatusUnpaid},
		{"zero total", "0", "0", order.PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveStatus(types.MustMoney(tt.total), types.MustMoney(tt.paid))
			assert.Equal(t, tt.want, got)
		})
	}
}
