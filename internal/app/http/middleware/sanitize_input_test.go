package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func echoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	echo := func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", b)
	}
	r.POST("/echo", echo)
	r.GET("/echo", echo)
	return r
}

func TestSanitize_StripsNestedMarkup(t *testing.T) {
	r := echoRouter()
	body := `{"name":"<b>Ana</b>","meta":{"note":"<script>x</script>ok"},"tags":["<i>a</i>"],"amount":19.99}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Ana","meta":{"note":"ok"},"tags":["a"],"amount":19.99}`, w.Body.String())
	assert.Contains(t, w.Body.String(), `19.99`)
}

func TestSanitize_RejectsMalformedJSON(t *testing.T) {
	r := echoRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"name":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitize_SkipsReads(t *testing.T) {
	r := echoRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
