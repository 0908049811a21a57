package billing

import (
	"fmt"
	"strings"
	"time"

	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/domain/users"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is an append-only financial record. Only Status and PaidAt change
// after creation, and only through Transition.
type Invoice struct {
	ID                 string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID             string                      `gorm:"<-:create;not null;index;type:varchar(36)" json:"userId"`
	User               *users.User                 `json:"user,omitempty"`
	SubscriptionID     *string                     `gorm:"<-:create;index;type:varchar(64)" json:"subscriptionId"`
	Subscription       *subscriptions.Subscription `json:"subscription,omitempty"`
	Amount             decimal.Decimal             `gorm:"<-:create;type:numeric(12,2);not null" json:"amount"`
	Status             Status                      `gorm:"type:varchar(16);not null;index" json:"status"`
	DueDate            time.Time                   `gorm:"<-:create;not null" json:"dueDate"`
	PaidAt             *time.Time                  `json:"paidAt"`
	InvoiceNumber      string                      `gorm:"<-:create;not null;uniqueIndex:idx_invoices_number" json:"invoiceNumber"`
	ExternalPaymentRef *string                     `gorm:"<-:create;column:external_payment_ref;uniqueIndex:idx_invoices_external_ref" json:"externalPaymentRef"`
	CreatedAt          time.Time                   `gorm:"<-:create;index" json:"createdAt"`
}

type NewInvoiceParams struct {
	UserID             string
	SubscriptionID     *string
	Amount             decimal.Decimal
	DueDate            time.Time
	InvoiceNumber      string
	ExternalPaymentRef *string
	Status             Status
	PaidAt             *time.Time
}

// NewInvoice assigns identity, number and creation time and checks the
// record invariants. An empty Status means PENDING.
func NewInvoice(p NewInvoiceParams, now time.Time) (*Invoice, error) {
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	number := strings.TrimSpace(p.InvoiceNumber)
	if number == "" {
		number = GenerateNumber(now)
	}
	inv := &Invoice{
		ID:                 uuid.NewString(),
		UserID:             strings.TrimSpace(p.UserID),
		SubscriptionID:     p.SubscriptionID,
		Amount:             p.Amount.Round(2),
		Status:             status,
		DueDate:            p.DueDate.UTC(),
		InvoiceNumber:      number,
		ExternalPaymentRef: p.ExternalPaymentRef,
		CreatedAt:          now.UTC(),
	}
	if status == StatusPaid {
		paidAt := now.UTC()
		if p.PaidAt != nil {
			paidAt = p.PaidAt.UTC()
		}
		inv.PaidAt = &paidAt
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// GenerateNumber returns a human-facing number of the form INV-2024-1A2B3C4D.
func GenerateNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%d-%s", now.UTC().Year(), suffix)
}

func (inv *Invoice) Validate() error {
	switch {
	case inv.UserID == "":
		return fmt.Errorf("%w: missing owner", ErrInvalidInvoice)
	case inv.InvoiceNumber == "":
		return fmt.Errorf("%w: missing invoice number", ErrInvalidInvoice)
	case inv.Amount.IsNegative():
		return ErrInvalidAmount
	case !inv.Status.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidStatus, inv.Status)
	case (inv.Status == StatusPaid) != (inv.PaidAt != nil):
		return fmt.Errorf("%w: paidAt must be set only when status is %s", ErrInvalidInvoice, StatusPaid)
	}
	return nil
}

// Transition moves the invoice to next. A same-status call is a no-op and
// reports changed=false. PaidAt is stamped once, on the move to PAID.
func (inv *Invoice) Transition(next Status, at time.Time) (changed bool, err error) {
	if !next.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if inv.Status == next {
		return false, nil
	}
	if !inv.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, next)
	}
	inv.Status = next
	if next == StatusPaid {
		paidAt := at.UTC()
		inv.PaidAt = &paidAt
	}
	return true, nil
}

// PlanName returns the joined plan name, or nil for ad-hoc charges and
// subscriptions that no longer resolve.
func (inv *Invoice) PlanName() *string {
	if inv.Subscription == nil || inv.Subscription.Plan == nil {
		return nil
	}
	name := inv.Subscription.Plan.Name
	return &name
}
