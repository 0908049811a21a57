package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"invoice-portal/database"
	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/plans"
	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/domain/users"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := database.Open("sqlite://file:"+name+"?mode=memory&cache=shared", zerolog.Nop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func strPtr(s string) *string { return &s }

type fixture struct {
	alice users.User
	bob   users.User
	basic plans.Plan
	sub   subscriptions.Subscription
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		alice: users.User{ID: "u-alice", Name: "Alice", Email: "alice@example.com", Role: "USER"},
		bob:   users.User{ID: "u-bob", Name: "Bob", Email: "bob@example.com", Role: "USER"},
		basic: plans.Plan{
			ID:            "plan-basic",
			Name:          "Básico",
			Description:   "Plan mensual",
			Price:         decimal.RequireFromString("9.99"),
			Currency:      "eur",
			Interval:      "month",
			StripePriceID: strPtr("price_basic"),
			Active:        true,
		},
	}
	f.sub = subscriptions.Subscription{
		ID:                   "sub-alice",
		UserID:               f.alice.ID,
		PlanID:               f.basic.ID,
		Status:               subscriptions.StatusActive,
		StripeSubscriptionID: strPtr("sub_stripe_alice"),
		CreatedAt:            ts("2024-01-01T00:00:00Z"),
	}

	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)
	require.NoError(t, db.Create(&f.basic).Error)
	require.NoError(t, db.Create(&f.sub).Error)
	return f
}

func mustInvoice(t *testing.T, s *InvoiceStore, p billing.NewInvoiceParams, created time.Time) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(p, created)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), inv))
	return inv
}
