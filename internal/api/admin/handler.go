package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/infra/logging"
	"invoice-portal/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	recentWindow    = 30 * 24 * time.Hour
)

type InvoiceStore interface {
	ListAll(ctx context.Context, limit, offset int) ([]billing.Invoice, int64, error)
	Stats(ctx context.Context, since time.Time) (*store.InvoiceStats, error)
	Create(ctx context.Context, inv *billing.Invoice) error
	Transition(ctx context.Context, id string, next billing.Status, at time.Time) (*billing.Invoice, error)
}

type UserStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type SubscriptionStore interface {
	GetByID(ctx context.Context, id string) (*subscriptions.Subscription, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
	Dialect() string
}

type Handler struct {
	invoices      InvoiceStore
	users         UserStore
	subscriptions SubscriptionStore
	health        HealthChecker
	now           func() time.Time
}

func NewHandler(invoices InvoiceStore, users UserStore, subs SubscriptionStore, health HealthChecker) *Handler {
	return &Handler{
		invoices:      invoices,
		users:         users,
		subscriptions: subs,
		health:        health,
		now:           time.Now,
	}
}

// ListInvoices handles GET /admin/invoices?page=&limit=.
func (h *Handler) ListInvoices(c *gin.Context) {
	page := queryInt(c, "page", 1, 1, 1<<20)
	limit := queryInt(c, "limit", defaultPageSize, 1, maxPageSize)

	list, total, err := h.invoices.ListAll(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("admin list invoices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoices"})
		return
	}

	items := make([]AdminInvoice, 0, len(list))
	for i := range list {
		items = append(items, toAdminInvoice(&list[i]))
	}
	c.JSON(http.StatusOK, InvoicePage{Items: items, Total: total, Page: page, Limit: limit})
}

// Stats handles GET /admin/invoices/stats.
func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.invoices.Stats(ctx, h.now().Add(-recentWindow))
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("admin invoice stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	totalUsers, err := h.users.Count(ctx)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("admin user count")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, toAdminStats(stats, totalUsers))
}

// CreateInvoice handles POST /admin/invoices.
func (h *Handler) CreateInvoice(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ok, err := h.users.Exists(ctx, req.UserID)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("admin create invoice: user lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	if req.SubscriptionID != nil && *req.SubscriptionID != "" {
		sub, err := h.subscriptions.GetByID(ctx, *req.SubscriptionID)
		if errors.Is(err, store.ErrSubscriptionNotFound) || (err == nil && sub.UserID != req.UserID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Subscription does not belong to user"})
			return
		}
		if err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("admin create invoice: subscription lookup")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
			return
		}
	} else {
		req.SubscriptionID = nil
	}

	now := h.now()
	status := billing.StatusPending
	if req.Status != "" {
		if status, err = billing.ParseStatus(req.Status); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}
	due := now.AddDate(0, 0, 14)
	if req.DueDate != nil {
		due = *req.DueDate
	}

	inv, err := billing.NewInvoice(billing.NewInvoiceParams{
		UserID:         req.UserID,
		SubscriptionID: req.SubscriptionID,
		Amount:         req.Amount,
		DueDate:        due,
		InvoiceNumber:  req.InvoiceNumber,
		Status:         status,
	}, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.invoices.Create(ctx, inv); err != nil {
		if errors.Is(err, billing.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice number already exists"})
			return
		}
		logging.FromContext(ctx).Error().Err(err).Msg("admin create invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	logging.FromContext(ctx).Info().Str("invoice_id", inv.ID).Str("user_id", inv.UserID).Msg("invoice created")
	c.JSON(http.StatusCreated, toAdminInvoice(inv))
}

// UpdateStatus handles PATCH /admin/invoices/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	next, err := billing.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	at := h.now()
	if req.PaidAt != nil {
		at = *req.PaidAt
	}
	inv, err := h.invoices.Transition(ctx, c.Param("id"), next, at)
	switch {
	case errors.Is(err, billing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	case errors.Is(err, billing.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		logging.FromContext(ctx).Error().Err(err).Str("invoice_id", c.Param("id")).Msg("admin update invoice status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		return
	}
	c.JSON(http.StatusOK, toAdminInvoice(inv))
}

// DBStatus handles GET /admin/db-status.
func (h *Handler) DBStatus(c *gin.Context) {
	ctx := c.Request.Context()
	ts := h.now().UTC().Format(time.RFC3339)

	if err := h.health.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "dialect": h.health.Dialect(), "timestamp": ts})
		return
	}
	n, err := h.users.Count(ctx)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("database user count failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "dialect": h.health.Dialect(), "timestamp": ts})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "connected",
		"dialect":    h.health.Dialect(),
		"usersCount": n,
		"timestamp":  ts,
	})
}

func queryInt(c *gin.Context, key string, def, min, max int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
