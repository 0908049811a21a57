package stripe

import (
	"strings"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/subscriptions"
)

// NormalizeSubscriptionStatus maps a Stripe subscription status onto the
// local set stored on subscriptions.Subscription.
func NormalizeSubscriptionStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "active":
		return subscriptions.StatusActive
	case "trialing":
		return subscriptions.StatusTrialing
	case "past_due", "unpaid":
		return subscriptions.StatusPastDue
	case "canceled", "incomplete_expired":
		return subscriptions.StatusCanceled
	default:
		return subscriptions.StatusIncomplete
	}
}

// InvoiceStatus maps a Stripe invoice status onto billing.Status.
// draft and open invoices are still awaiting payment.
func InvoiceStatus(s string) billing.Status {
	switch strings.TrimSpace(s) {
	case "paid":
		return billing.StatusPaid
	case "void":
		return billing.StatusCancelled
	case "uncollectible":
		return billing.StatusOverdue
	default:
		return billing.StatusPending
	}
}
