package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoice-portal/internal/domain/subscriptions"

	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) GetByID(ctx context.Context, id string) (*subscriptions.Subscription, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *SubscriptionStore) FindByStripeID(ctx context.Context, stripeID string) (*subscriptions.Subscription, error) {
	return s.first(ctx, "stripe_subscription_id = ?", stripeID)
}

// CurrentForUser returns the user's most recently created subscription,
// whatever its status.
func (s *SubscriptionStore) CurrentForUser(ctx context.Context, userID string) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("current subscription for user %s: %w", userID, err)
	}
	return &sub, nil
}

// StripeUpdate carries the fields mirrored from a Stripe subscription event.
// A nil PlanID leaves the plan untouched.
type StripeUpdate struct {
	Status             string
	PlanID             *string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

func (s *SubscriptionStore) UpdateFromStripe(ctx context.Context, id string, u StripeUpdate) error {
	updates := map[string]interface{}{
		"status": u.Status,
	}
	if u.PlanID != nil {
		updates["plan_id"] = *u.PlanID
	}
	if u.CurrentPeriodStart != nil {
		updates["current_period_start"] = u.CurrentPeriodStart.UTC()
	}
	if u.CurrentPeriodEnd != nil {
		updates["current_period_end"] = u.CurrentPeriodEnd.UTC()
	}

	res := s.db.WithContext(ctx).Model(&subscriptions.Subscription{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update subscription %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (s *SubscriptionStore) first(ctx context.Context, query string, arg string) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := s.db.WithContext(ctx).Preload("Plan").Where(query, arg).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}
