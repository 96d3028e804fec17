package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
)

func TestPaymentMethodValid(t *testing.T) {
	tests := []struct {
		method PaymentMethod
		want   bool
	}{
		{PaymentMethodCash, true},
		{PaymentMethodCredit, true},
		{PaymentMethodBankTransfer, true},
		{PaymentMethodDigitalWallet, true},
		{"check", false},
		{"CASH", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.method.Valid())
		})
	}
}

func TestPaymentStatusValid(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentStatusPaid, true},
		{PaymentStatusPartial, true},
		{PaymentStatusUnpaid, true},
		{"settled", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestOrderValidate(t *testing.T) {
	valid := func() *Order {
		return &Order{
			ID:            id.New(),
			CustomerID:    id.New(),
			Total:         types.MustMoney("3200.00"),
			PaymentAmount: types.MustMoney("2000.00"),
			PaymentMethod: PaymentMethodCash,
			PaymentStatus: PaymentStatusPartial,
		}
	}

	assert.NoError(t, valid().Validate())

	o := valid()
	o.CustomerID = id.Nil
	assert.Error(t, o.Validate())

	o = valid()
	o.Total = types.MustMoney("-1")
	assert.Error(t, o.Validate())

	o = valid()
	o.PaymentMethod = "barter"
	err := o.Validate()
	assert.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	o = valid()
	o.PaymentStatus = "pending"
	assert.Error(t, o.Validate())
}
