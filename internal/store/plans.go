package store

import (
	"context"
	"errors"
	"fmt"

	"invoice-portal/internal/domain/plans"

	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("plan not found")

type PlanStore struct {
	db *gorm.DB
}

func NewPlanStore(db *gorm.DB) *PlanStore {
	return &PlanStore{db: db}
}

// ListActive returns purchasable plans, cheapest first.
func (s *PlanStore) ListActive(ctx context.Context) ([]plans.Plan, error) {
	list := []plans.Plan{}
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price ASC").
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return list, nil
}

func (s *PlanStore) FindByStripePriceID(ctx context.Context, priceID string) (*plans.Plan, error) {
	var p plans.Plan
	err := s.db.WithContext(ctx).Where("stripe_price_id = ?", priceID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find plan by price %s: %w", priceID, err)
	}
	return &p, nil
}

// UpsertFromStripe creates the plan keyed by its Stripe price id, or
// refreshes name, description, price and interval on an existing row.
// It reports whether a row was created.
func (s *PlanStore) UpsertFromStripe(ctx context.Context, p plans.Plan) (created bool, err error) {
	if p.StripePriceID == nil || *p.StripePriceID == "" {
		return false, fmt.Errorf("upsert plan %q: missing stripe price id", p.Name)
	}

	existing, err := s.FindByStripePriceID(ctx, *p.StripePriceID)
	switch {
	case errors.Is(err, ErrPlanNotFound):
		if p.ID == "" {
			p.ID = *p.StripePriceID
		}
		if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
			return false, fmt.Errorf("create plan %s: %w", p.ID, err)
		}
		return true, nil
	case err != nil:
		return false, err
	}

	err = s.db.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"currency":    p.Currency,
		"interval":    p.Interval,
		"active":      p.Active,
	}).Error
	if err != nil {
		return false, fmt.Errorf("update plan %s: %w", existing.ID, err)
	}
	return false, nil
}
