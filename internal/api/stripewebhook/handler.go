package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/plans"
	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/infra/logging"
	"invoice-portal/internal/infra/metrics"
	"invoice-portal/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = 65536

// errSkip marks events that are understood but cannot be applied, such as
// an invoice whose owner is unknown. They are acknowledged so Stripe stops
// retrying.
var errSkip = errors.New("event skipped")

type InvoiceStore interface {
	FindByExternalRef(ctx context.Context, ref string) (*billing.Invoice, error)
	Create(ctx context.Context, inv *billing.Invoice) error
	Transition(ctx context.Context, id string, next billing.Status, at time.Time) (*billing.Invoice, error)
}

type SubscriptionStore interface {
	FindByStripeID(ctx context.Context, stripeID string) (*subscriptions.Subscription, error)
	UpdateFromStripe(ctx context.Context, id string, u store.StripeUpdate) error
}

type PlanStore interface {
	FindByStripePriceID(ctx context.Context, priceID string) (*plans.Plan, error)
}

type UserStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	secret        string
	invoices      InvoiceStore
	subscriptions SubscriptionStore
	plans         PlanStore
	users         UserStore
	now           func() time.Time
}

func NewHandler(secret string, invoices InvoiceStore, subs SubscriptionStore, plans PlanStore, users UserStore) *Handler {
	return &Handler{
		secret:        secret,
		invoices:      invoices,
		subscriptions: subs,
		plans:         plans,
		users:         users,
		now:           time.Now,
	}
}

// StripeWebhook handles POST /webhook/stripe.
func (h *Handler) StripeWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx)

	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Warn().Err(err).Msg("stripe signature verification failed")
		metrics.IncWebhookEvent("unknown", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	eventType := string(event.Type)
	elog := log.With().Str("event_id", event.ID).Str("event_type", eventType).Logger()
	ctx = elog.WithContext(ctx)

	var handle func(context.Context, json.RawMessage) error
	switch eventType {
	case "invoice.created", "invoice.finalized":
		handle = h.handleInvoiceOpened
	case "invoice.paid":
		handle = h.handleInvoicePaid
	case "invoice.voided":
		handle = h.invoiceMovedTo(billing.StatusCancelled)
	case "invoice.marked_uncollectible":
		handle = h.invoiceMovedTo(billing.StatusOverdue)
	case "customer.subscription.updated":
		handle = h.handleSubscriptionUpdated
	case "customer.subscription.deleted":
		handle = h.handleSubscriptionDeleted
	default:
		metrics.IncWebhookEvent(eventType, "ignored")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	err = handle(ctx, event.Data.Raw)
	switch {
	case errors.Is(err, errMalformed):
		elog.Warn().Err(err).Msg("stripe event payload rejected")
		metrics.IncWebhookEvent(eventType, "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse event object"})
	case errors.Is(err, errSkip), errors.Is(err, billing.ErrInvalidTransition):
		elog.Warn().Err(err).Msg("stripe event acknowledged without changes")
		metrics.IncWebhookEvent(eventType, "ignored")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	case err != nil:
		elog.Error().Err(err).Msg("stripe event failed")
		metrics.IncWebhookEvent(eventType, "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
	default:
		metrics.IncWebhookEvent(eventType, "processed")
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

var errMalformed = errors.New("malformed event object")

func decode(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(errMalformed, err)
	}
	return nil
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}

func fromUnix(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
