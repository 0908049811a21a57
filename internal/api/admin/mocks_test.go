package admin

import (
	"context"
	"time"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/store"

	"github.com/stretchr/testify/mock"
)

type MockInvoiceStore struct{ mock.Mock }

func (m *MockInvoiceStore) ListAll(ctx context.Context, limit, offset int) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceStore) Stats(ctx context.Context, since time.Time) (*store.InvoiceStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.InvoiceStats), args.Error(1)
}

func (m *MockInvoiceStore) Create(ctx context.Context, inv *billing.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceStore) Transition(ctx context.Context, id string, next billing.Status, at time.Time) (*billing.Invoice, error) {
	args := m.Called(ctx, id, next, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubscriptionStore struct{ mock.Mock }

func (m *MockSubscriptionStore) GetByID(ctx context.Context, id string) (*subscriptions.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptions.Subscription), args.Error(1)
}

type MockHealth struct{ mock.Mock }

func (m *MockHealth) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockHealth) Dialect() string                { return "postgres" }
