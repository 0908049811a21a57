package subscriptions

import (
	"time"

	"invoice-portal/internal/domain/plans"
)

// Subscription statuses as stored locally (normalised from Stripe).
const (
	StatusActive     = "ACTIVE"
	StatusTrialing   = "TRIALING"
	StatusPastDue    = "PAST_DUE"
	StatusCanceled   = "CANCELED"
	StatusIncomplete = "INCOMPLETE"
)

type Subscription struct {
	ID                   string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID               string      `gorm:"not null;index;type:varchar(36)" json:"userId"`
	PlanID               string      `gorm:"not null;type:varchar(64)" json:"planId"`
	Plan                 *plans.Plan `json:"plan,omitempty"`
	Status               string      `gorm:"type:varchar(32);not null" json:"status"`
	StripeSubscriptionID *string     `gorm:"column:stripe_subscription_id;uniqueIndex:idx_subscriptions_stripe_id" json:"stripeSubscriptionId,omitempty"`
	CurrentPeriodStart   *time.Time  `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd     *time.Time  `json:"currentPeriodEnd,omitempty"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}
