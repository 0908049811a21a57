package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/infra/logging"
	stripestatus "invoice-portal/internal/infra/stripe"
	"invoice-portal/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
)

// handleInvoiceOpened mirrors invoice.created and invoice.finalized. The
// local copy takes whatever status Stripe reports.
func (h *Handler) handleInvoiceOpened(ctx context.Context, raw json.RawMessage) error {
	var si stripe.Invoice
	if err := decode(raw, &si); err != nil {
		return err
	}
	return h.applyInvoice(ctx, &si, stripestatus.InvoiceStatus(string(si.Status)))
}

func (h *Handler) handleInvoicePaid(ctx context.Context, raw json.RawMessage) error {
	var si stripe.Invoice
	if err := decode(raw, &si); err != nil {
		return err
	}
	return h.applyInvoice(ctx, &si, billing.StatusPaid)
}

func (h *Handler) invoiceMovedTo(status billing.Status) func(context.Context, json.RawMessage) error {
	return func(ctx context.Context, raw json.RawMessage) error {
		var si stripe.Invoice
		if err := decode(raw, &si); err != nil {
			return err
		}
		return h.applyInvoice(ctx, &si, status)
	}
}

// applyInvoice creates the local invoice on first sight, otherwise moves
// the existing one to target.
func (h *Handler) applyInvoice(ctx context.Context, si *stripe.Invoice, target billing.Status) error {
	if si.ID == "" {
		return fmt.Errorf("%w: invoice without id", errMalformed)
	}
	log := logging.FromContext(ctx)
	at := h.paidAt(si)

	existing, err := h.invoices.FindByExternalRef(ctx, si.ID)
	switch {
	case errors.Is(err, billing.ErrNotFound):
		inv, err := h.newInvoice(ctx, si, target, at)
		if err != nil {
			return err
		}
		if err := h.invoices.Create(ctx, inv); err != nil {
			if !errors.Is(err, billing.ErrDuplicate) {
				return err
			}
			// Either a redelivery raced with a previous attempt or the
			// Stripe number is already held by a local invoice.
			err = h.transition(ctx, si.ID, target, at)
			if !errors.Is(err, billing.ErrNotFound) {
				return err
			}
			log.Warn().Str("number", inv.InvoiceNumber).Msg("stripe invoice number already in use, assigning a local one")
			inv.InvoiceNumber = billing.GenerateNumber(inv.CreatedAt)
			if err := h.invoices.Create(ctx, inv); err != nil {
				return err
			}
		}
		log.Info().
			Str("invoice_id", inv.ID).
			Str("number", inv.InvoiceNumber).
			Str("status", string(inv.Status)).
			Str("customer", customerRef(si)).
			Msg("invoice mirrored from stripe")
		return nil
	case err != nil:
		return err
	}

	inv, err := h.invoices.Transition(ctx, existing.ID, target, at)
	if err != nil {
		return err
	}
	log.Info().Str("invoice_id", inv.ID).Str("status", string(inv.Status)).Msg("invoice status updated from stripe")
	return nil
}

func (h *Handler) transition(ctx context.Context, ref string, target billing.Status, at time.Time) error {
	existing, err := h.invoices.FindByExternalRef(ctx, ref)
	if err != nil {
		return err
	}
	_, err = h.invoices.Transition(ctx, existing.ID, target, at)
	return err
}

func (h *Handler) newInvoice(ctx context.Context, si *stripe.Invoice, status billing.Status, at time.Time) (*billing.Invoice, error) {
	userID, subscriptionID, err := h.resolveOwner(ctx, si)
	if err != nil {
		return nil, err
	}

	created := h.now()
	if t := fromUnix(si.Created); t != nil {
		created = *t
	}
	due := created
	if t := fromUnix(si.DueDate); t != nil {
		due = *t
	}
	ref := si.ID

	p := billing.NewInvoiceParams{
		UserID:             userID,
		SubscriptionID:     subscriptionID,
		Amount:             decimal.New(si.AmountDue, -2),
		DueDate:            due,
		InvoiceNumber:      si.Number,
		ExternalPaymentRef: &ref,
		Status:             status,
	}
	if status == billing.StatusPaid {
		p.PaidAt = &at
	}
	inv, err := billing.NewInvoice(p, created)
	if err != nil {
		return nil, errors.Join(errSkip, err)
	}
	return inv, nil
}

// resolveOwner finds the local user for a Stripe invoice: through the
// mirrored subscription first, then metadata.user_id.
func (h *Handler) resolveOwner(ctx context.Context, si *stripe.Invoice) (userID string, subscriptionID *string, err error) {
	if si.Subscription != nil && si.Subscription.ID != "" {
		sub, err := h.subscriptions.FindByStripeID(ctx, si.Subscription.ID)
		switch {
		case err == nil:
			return sub.UserID, &sub.ID, nil
		case !errors.Is(err, store.ErrSubscriptionNotFound):
			return "", nil, err
		}
	}

	uid := userIDFromMetadata(si.Metadata)
	if uid == "" {
		return "", nil, fmt.Errorf("%w: no owner for stripe invoice %s", errSkip, si.ID)
	}
	ok, err := h.users.Exists(ctx, uid)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown user %s for stripe invoice %s", errSkip, uid, si.ID)
	}
	return uid, nil, nil
}

// paidAt prefers the payment time Stripe recorded over the delivery time.
func (h *Handler) paidAt(si *stripe.Invoice) time.Time {
	if si.StatusTransitions != nil {
		if t := fromUnix(si.StatusTransitions.PaidAt); t != nil {
			return *t
		}
	}
	return h.now().UTC()
}

func userIDFromMetadata(md map[string]string) string {
	if md == nil {
		return ""
	}
	return strings.TrimSpace(md["user_id"])
}

// customerRef is the redacted Stripe customer id for log lines.
func customerRef(si *stripe.Invoice) string {
	if si.Customer == nil || si.Customer.ID == "" {
		return ""
	}
	return logging.Redact(si.Customer.ID)
}
