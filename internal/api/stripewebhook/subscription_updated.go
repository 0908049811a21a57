package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"invoice-portal/internal/infra/logging"
	stripestatus "invoice-portal/internal/infra/stripe"
	"invoice-portal/internal/store"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleSubscriptionUpdated(ctx context.Context, raw json.RawMessage) error {
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

	update := store.StripeUpdate{
		Status:             stripestatus.NormalizeSubscriptionStatus(string(sub.Status)),
		CurrentPeriodStart: fromUnix(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   fromUnix(sub.CurrentPeriodEnd),
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		plan, err := h.plans.FindByStripePriceID(ctx, sub.Items.Data[0].Price.ID)
		switch {
		case err == nil:
			update.PlanID = &plan.ID
		case errors.Is(err, store.ErrPlanNotFound):
			logging.FromContext(ctx).Warn().Str("price_id", sub.Items.Data[0].Price.ID).Msg("subscription price has no local plan")
		default:
			return err
		}
	}

	return h.subscriptions.UpdateFromStripe(ctx, local.ID, update)
}
