package plans

import (
	"context"
	"fmt"
	"html"
	"strings"

	"invoice-portal/internal/domain/plans"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
)

type PriceLister interface {
	ListRecurring(ctx context.Context) ([]*stripe.Price, error)
}

type PlanStore interface {
	ListActive(ctx context.Context) ([]plans.Plan, error)
	UpsertFromStripe(ctx context.Context, p plans.Plan) (created bool, err error)
}

type SyncResult struct {
	Synced  int `json:"synced"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

var textPolicy = bluemonday.StrictPolicy()

// Sync upserts one plan per active recurring Stripe price. When productID
// is set, prices of other products are skipped. A price can be hidden with
// metadata visible=false and renamed with metadata plan=<name>.
func Sync(ctx context.Context, prices PriceLister, store PlanStore, productID string) (SyncResult, error) {
	var res SyncResult

	list, err := prices.ListRecurring(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch stripe prices: %w", err)
	}

	for _, p := range list {
		plan, ok := planFromPrice(p, productID)
		if !ok {
			res.Skipped++
			continue
		}
		created, err := store.UpsertFromStripe(ctx, plan)
		if err != nil {
			return res, err
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		res.Synced++
	}
	return res, nil
}

func planFromPrice(p *stripe.Price, productID string) (plans.Plan, bool) {
	if p == nil || !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
		return plans.Plan{}, false
	}
	if productID != "" && p.Product.ID != productID {
		return plans.Plan{}, false
	}
	if p.Metadata["visible"] == "false" {
		return plans.Plan{}, false
	}

	name := p.Product.Name
	if v := strings.TrimSpace(p.Metadata["plan"]); v != "" {
		name = v
	}
	priceID := p.ID
	return plans.Plan{
		Name:          plainText(name),
		Description:   plainText(p.Product.Description),
		Price:         decimal.New(p.UnitAmount, -2),
		Currency:      string(p.Currency),
		Interval:      string(p.Recurring.Interval),
		StripePriceID: &priceID,
		Active:        true,
	}, true
}

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
