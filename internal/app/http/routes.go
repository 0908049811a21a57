package routes

import (
	"net/http"

	adminapi "invoice-portal/internal/api/admin"
	invoicesapi "invoice-portal/internal/api/invoices"
	plansapi "invoice-portal/internal/api/plans"
	stripewebhooks "invoice-portal/internal/api/stripewebhook"
	usersapi "invoice-portal/internal/api/users"
	"invoice-portal/internal/app/http/middleware"
	"invoice-portal/internal/domain/access"
	"invoice-portal/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

// Deps are the constructed handlers the router mounts.
type Deps struct {
	JWTSecret []byte
	Invoices  *invoicesapi.Handler
	Users     *usersapi.Handler
	Plans     *plansapi.Handler
	Admin     *adminapi.Handler
	Webhook   *stripewebhooks.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Signature verification needs the raw body, so the webhook sits
	// outside the sanitizing group.
	r.POST("/webhook/stripe", d.Webhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	public := r.Group("/")
	public.GET("/plans", d.Plans.ListPlans)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret))
	auth.GET("/me", d.Users.GetCurrentUser)
	auth.GET("/invoices", d.Invoices.List)
	auth.GET("/invoices/:id/document", d.Invoices.Document)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(d.JWTSecret),
		middleware.RequireRole(access.RoleAdmin),
		middleware.SanitizeAndCleanInputMiddleware(),
	)
	admin.GET("/invoices", d.Admin.ListInvoices)
	admin.POST("/invoices", d.Admin.CreateInvoice)
	admin.GET("/invoices/stats", d.Admin.Stats)
	admin.PATCH("/invoices/:id/status", d.Admin.UpdateStatus)
	admin.GET("/db-status", d.Admin.DBStatus)
	admin.POST("/sync-plans", d.Plans.SyncPlansFromStripe)
}
