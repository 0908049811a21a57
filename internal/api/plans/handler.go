package plans

import (
	"net/http"

	"invoice-portal/internal/infra/logging"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store     PlanStore
	prices    PriceLister
	productID string
}

// NewHandler builds the plan handlers. prices may be nil when Stripe is not
// configured; sync then answers 503.
func NewHandler(store PlanStore, prices PriceLister, productID string) *Handler {
	return &Handler{store: store, prices: prices, productID: productID}
}

// ListPlans handles GET /plans.
func (h *Handler) ListPlans(c *gin.Context) {
	list, err := h.store.ListActive(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("list plans")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// SyncPlansFromStripe handles POST /admin/sync-plans.
func (h *Handler) SyncPlansFromStripe(c *gin.Context) {
	if h.prices == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe key not configured"})
		return
	}
	res, err := Sync(c.Request.Context(), h.prices, h.store, h.productID)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error().Err(err).Interface("partial", res).Msg("sync plans")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sync plans"})
		return
	}
	logging.FromContext(c.Request.Context()).Info().Interface("result", res).Msg("plans synced")
	c.JSON(http.StatusOK, res)
}
