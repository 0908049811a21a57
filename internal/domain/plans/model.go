package plans

import "github.com/shopspring/decimal"

type Plan struct {
	ID            string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Currency      string          `gorm:"type:varchar(3)" json:"currency"`
	Interval      string          `json:"interval"`
	StripePriceID *string         `gorm:"column:stripe_price_id;uniqueIndex:idx_plans_stripe_price_id" json:"stripePriceId,omitempty"`
	Active        bool            `json:"active"`
}
