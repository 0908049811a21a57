package invoices

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoice-portal/internal/app/http/middleware"
	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/invoicedoc"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("handler-secret")

func bearer(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Role:  role,
		Email: sub + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)
	return "Bearer " + tok
}

func setupRouter(repo *MockInvoiceReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo), invoicedoc.Spanish)

	r := gin.New()
	auth := r.Group("/", middleware.AuthMiddleware(testSecret))
	auth.GET("/invoices", h.List)
	auth.GET("/invoices/:id/document", h.Document)
	return r
}

func do(r *gin.Engine, path, authz string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_List(t *testing.T) {
	repo := new(MockInvoiceReader)
	repo.On("ListByOwner", mock.Anything, "U1").Return([]billing.Invoice{*inv001()}, nil)
	r := setupRouter(repo)

	w := do(r, "/invoices", bearer(t, "U1", "USER"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "inv-001", body[0]["id"])
	assert.Equal(t, "INV-001", body[0]["invoiceNumber"])
	assert.Equal(t, "Básico", body[0]["planName"])
	assert.Equal(t, 9.99, body[0]["amount"])
	assert.Equal(t, "PAID", body[0]["status"])
	assert.Equal(t, "2024-03-05T10:00:00Z", body[0]["date"])
}

func TestHandler_List_Empty(t *testing.T) {
	repo := new(MockInvoiceReader)
	repo.On("ListByOwner", mock.Anything, "U1").Return([]billing.Invoice{}, nil)
	r := setupRouter(repo)

	w := do(r, "/invoices", bearer(t, "U1", "USER"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_List_StoreFailure(t *testing.T) {
	repo := new(MockInvoiceReader)
	repo.On("ListByOwner", mock.Anything, "U1").Return(nil, errors.New("pq: connection refused"))
	r := setupRouter(repo)

	w := do(r, "/invoices", bearer(t, "U1", "USER"), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Error al obtener facturas"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestHandler_Unauthenticated(t *testing.T) {
	repo := new(MockInvoiceReader)
	r := setupRouter(repo)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/invoices", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/invoices/inv-001/document", "", nil).Code)
	repo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
}

func TestHandler_Document(t *testing.T) {
	repo := new(MockInvoiceReader)
	repo.On("GetByID", mock.Anything, "inv-001").Return(inv001(), nil)
	repo.On("GetByID", mock.Anything, "does-not-exist").Return(nil, billing.ErrNotFound)
	repo.On("GetByID", mock.Anything, "broken").Return(nil, errors.New("timeout"))
	r := setupRouter(repo)

	tests := []struct {
		name   string
		path   string
		sub    string
		role   string
		status int
	}{
		{"owner", "/invoices/inv-001/document", "U1", "USER", http.StatusOK},
		{"stranger", "/invoices/inv-001/document", "U2", "USER", http.StatusForbidden},
		{"admin", "/invoices/inv-001/document", "A1", "ADMIN", http.StatusOK},
		{"missing", "/invoices/does-not-exist/document", "U1", "USER", http.StatusNotFound},
		{"store failure", "/invoices/broken/document", "U1", "USER", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, bearer(t, tt.sub, tt.role), nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_Document_Headers(t *testing.T) {
	repo := new(MockInvoiceReader)
	repo.On("GetByID", mock.Anything, "inv-001").Return(inv001(), nil)
	r := setupRouter(repo)

	w := do(r, "/invoices/inv-001/document", bearer(t, "U1", "USER"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="factura-INV-001.html"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Pagada")
}

func TestHandler_Document_Locale(t *testing.T) {
	repo := new(MockInvoiceReader)
	repo.On("GetByID", mock.Anything, "inv-001").Return(inv001(), nil)
	r := setupRouter(repo)

	byHeader := do(r, "/invoices/inv-001/document", bearer(t, "U1", "USER"), map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	require.Equal(t, http.StatusOK, byHeader.Code)
	assert.Contains(t, byHeader.Body.String(), `<html lang="en">`)

	byQuery := do(r, "/invoices/inv-001/document?lang=es", bearer(t, "U1", "USER"), map[string]string{"Accept-Language": "en"})
	require.Equal(t, http.StatusOK, byQuery.Code)
	assert.Contains(t, byQuery.Body.String(), "Pagada")
}

func TestHandler_Document_ZeroDefaultLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockInvoiceReader)
	repo.On("GetByID", mock.Anything, "inv-001").Return(inv001(), nil)
	h := NewHandler(NewService(repo), invoicedoc.Locale{})

	r := gin.New()
	r.GET("/invoices/:id/document", middleware.AuthMiddleware(testSecret), h.Document)

	w := do(r, "/invoices/inv-001/document", bearer(t, "U1", "USER"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pagada")
	assert.Contains(t, w.Body.String(), "de marzo de 2024")
}

func TestStatusFor(t *testing.T) {
	code, _ := statusFor(ErrUnauthenticated, "x")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = statusFor(ErrForbidden, "x")
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = statusFor(errors.Join(errors.New("load"), billing.ErrNotFound), "x")
	assert.Equal(t, http.StatusNotFound, code)
	code, msg := statusFor(errors.New("boom"), "Error al generar factura")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Error al generar factura", msg)
}
