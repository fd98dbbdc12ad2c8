package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, 2, zap.NewNop())
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/page", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/page", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("/page", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("/page", "10.0.0.1"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, do("/page", "10.0.0.2"))

	// health checks are never limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do("/healthz", "10.0.0.1"))
	}
}
