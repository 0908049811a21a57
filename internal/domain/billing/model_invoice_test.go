package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

func TestNewInvoice_Defaults(t *testing.T) {
	inv, err := NewInvoice(NewInvoiceParams{
		UserID:  "u1",
		Amount:  decimal.RequireFromString("9.999"),
		DueDate: fixedNow.AddDate(0, 0, 30),
	}, fixedNow)
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, StatusPending, inv.Status)
	assert.Nil(t, inv.PaidAt)
	assert.Equal(t, "10.00", inv.Amount.StringFixed(2))
	assert.Regexp(t, `^INV-2024-[0-9A-F]{8}$`, inv.InvoiceNumber)
	assert.True(t, inv.CreatedAt.Equal(fixedNow))
}

func TestNewInvoice_PaidStampsPaidAt(t *testing.T) {
	inv, err := NewInvoice(NewInvoiceParams{
		UserID:        "u1",
		Amount:        decimal.RequireFromString("9.99"),
		InvoiceNumber: "INV-001",
		Status:        StatusPaid,
	}, fixedNow)
	require.NoError(t, err)
	require.NotNil(t, inv.PaidAt)
	assert.True(t, inv.PaidAt.Equal(fixedNow))
	assert.Equal(t, "INV-001", inv.InvoiceNumber)
}

func TestNewInvoice_Rejects(t *testing.T) {
	_, err := NewInvoice(NewInvoiceParams{UserID: "u1", Amount: decimal.NewFromInt(-1)}, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewInvoice(NewInvoiceParams{Amount: decimal.NewFromInt(1)}, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidInvoice)

	_, err = NewInvoice(NewInvoiceParams{UserID: "u1", Status: "REFUNDED"}, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestInvoiceTransition(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		changed bool
		err     error
	}{
		{StatusPending, StatusPaid, true, nil},
		{StatusPending, StatusOverdue, true, nil},
		{StatusPending, StatusCancelled, true, nil},
		{StatusOverdue, StatusPaid, true, nil},
		{StatusOverdue, StatusCancelled, true, nil},
		{StatusOverdue, StatusPending, false, ErrInvalidTransition},
		{StatusPaid, StatusCancelled, false, ErrInvalidTransition},
		{StatusCancelled, StatusPaid, false, ErrInvalidTransition},
		{StatusPaid, StatusPaid, false, nil},
		{StatusPending, Status("LOST"), false, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			inv := &Invoice{UserID: "u1", InvoiceNumber: "INV-1", Status: tt.from}
			if tt.from == StatusPaid {
				paid := fixedNow.Add(-time.Hour)
				inv.PaidAt = &paid
			}
			paidBefore := inv.PaidAt

			changed, err := inv.Transition(tt.to, fixedNow)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Equal(t, tt.from, inv.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.to, inv.Status)
			assert.NoError(t, inv.Validate())
			if tt.from == StatusPaid {
				assert.Same(t, paidBefore, inv.PaidAt, "paidAt must not be re-stamped")
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" paid ")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, st)

	_, err = ParseStatus("refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPlanName(t *testing.T) {
	inv := &Invoice{}
	assert.Nil(t, inv.PlanName())
}
