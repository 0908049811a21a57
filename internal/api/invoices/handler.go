package invoices

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"invoice-portal/internal/app/http/middleware"
	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/invoicedoc"
	"invoice-portal/internal/infra/logging"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc           *Service
	defaultLocale invoicedoc.Locale
}

func NewHandler(svc *Service, defaultLocale invoicedoc.Locale) *Handler {
	return &Handler{svc: svc, defaultLocale: defaultLocale}
}

// List handles GET /invoices.
func (h *Handler) List(c *gin.Context) {
	who := middleware.CurrentIdentity(c)
	list, err := h.svc.ListMine(c.Request.Context(), who)
	if err != nil {
		h.fail(c, err, "Error al obtener facturas")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Document handles GET /invoices/:id/document.
func (h *Handler) Document(c *gin.Context) {
	who := middleware.CurrentIdentity(c)
	id := c.Param("id")

	out, err := h.svc.FetchDocument(c.Request.Context(), who, id, h.locale(c))
	if err != nil {
		h.fail(c, err, "Error al generar factura")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, safeFilename(out.Document.Filename)))
	c.Data(http.StatusOK, invoicedoc.ContentType, out.HTML)
}

// locale prefers an explicit ?lang= over Accept-Language.
func (h *Handler) locale(c *gin.Context) invoicedoc.Locale {
	if lang := c.Query("lang"); lang != "" {
		if loc, ok := invoicedoc.Lookup(lang); ok {
			return loc
		}
	}
	return invoicedoc.Negotiate(c.GetHeader("Accept-Language"), h.defaultLocale)
}

func (h *Handler) fail(c *gin.Context, err error, internalMsg string) {
	status, msg := statusFor(err, internalMsg)
	who := middleware.CurrentIdentity(c)
	log := logging.FromContext(c.Request.Context())
	switch status {
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("user_id", who.ID).Str("invoice_id", c.Param("id")).Msg(internalMsg)
	case http.StatusForbidden:
		log.Warn().Str("user_id", who.ID).Str("invoice_id", c.Param("id")).Msg("invoice access denied")
	}
	c.JSON(status, gin.H{"error": msg})
}

// statusFor is the single mapping from service errors to responses. Only
// the known sentinels get specific answers; everything else is Internal.
func statusFor(err error, internalMsg string) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "No autenticado"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "No autorizado"
	case errors.Is(err, billing.ErrNotFound):
		return http.StatusNotFound, "Factura no encontrada"
	default:
		return http.StatusInternalServerError, internalMsg
	}
}

func safeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, name)
}
