package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lexledger/lexledger-api/pkg/config"
)

func newRouter(cfg config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(cfg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func doRequest(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAllowsConfiguredOrigin(t *testing.T) {
	r := newRouter(config.CORSConfig{AllowedOrigins: []string{"https://lexledger.example/"}})

	// Trailing slash in the configured value must not matter.
	w := doRequest(r, http.MethodGet, "https://lexledger.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://lexledger.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestOmitsHeaderForUnknownOrigin(t *testing.T) {
	r := newRouter(config.CORSConfig{AllowedOrigins: []string{"https://lexledger.example"}})

	w := doRequest(r, http.MethodGet, "https://evil.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEmptyListAdmitsAnyOrigin(t *testing.T) {
	r := newRouter(config.CORSConfig{})

	w := doRequest(r, http.MethodGet, "https://anywhere.example")
	assert.Equal(t, "https://anywhere.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = doRequest(r, http.MethodGet, "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuits(t *testing.T) {
	r := newRouter(config.CORSConfig{AllowedOrigins: []string{"https://lexledger.example"}})

	w := doRequest(r, http.MethodOptions, "https://lexledger.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
}
