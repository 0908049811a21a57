package invoices

import (
	"context"

	"invoice-portal/internal/domain/billing"

	"github.com/stretchr/testify/mock"
)

type MockInvoiceReader struct {
	mock.Mock
}

func (m *MockInvoiceReader) ListByOwner(ctx context.Context, userID string) ([]billing.Invoice, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceReader) GetByID(ctx context.Context, id string) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}
