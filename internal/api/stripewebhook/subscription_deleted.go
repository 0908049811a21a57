package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/store"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleSubscriptionDeleted(ctx context.Context, raw json.RawMessage) error {
	var sub stripe.Subscription
	if err := decode(raw, &sub); err != nil {
		return err
	}
	if sub.ID == "" {
		return fmt.Errorf("%w: subscription without id", errMalformed)
	}

	local, err := h.subscriptions.FindByStripeID(ctx, sub.ID)
	if errors.Is(err, store.ErrSubscriptionNotFound) {
		return fmt.Errorf("%w: subscription %s not mirrored locally", errSkip, sub.ID)
	}
	if err != nil {
		return err
	}

	return h.subscriptions.UpdateFromStripe(ctx, local.ID, store.StripeUpdate{
		Status:           subscriptions.StatusCanceled,
		CurrentPeriodEnd: fromUnix(sub.CurrentPeriodEnd),
	})
}
