package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	router, recorded := newObservedRouter(t)
	router.GET("/api/v1/pricing/gold-rates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates?karat=22K", nil)
	req.Header.Set("X-Tenant-ID", "shop-jaipur-01")
	router.ServeHTTP(w, req)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "http request", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/pricing/gold-rates", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "karat=22K", fields["query"])
	assert.Equal(t, "shop-jaipur-01", fields["tenant_id"])
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	router, recorded := newObservedRouter(t)
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/missing", "/broken"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestGinMiddleware_SkipsHealthEndpoint(t *testing.T) {
	router, recorded := newObservedRouter(t)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, recorded.Len())
}

func TestGetGinLogger(t *testing.T) {
	router, _ := newObservedRouter(t)
	var fromHandler *zap.Logger
	router.GET("/quote", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quote", nil))
	require.NotNil(t, fromHandler)
}

func TestGetGinLogger_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	// Without the middleware a no-op logger comes back, never nil
	assert.NotNil(t, GetGinLogger(c))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.POST("/api/v1/invoices", func(c *gin.Context) {
		panic("nil invoice line")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/invoices", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0].Message)
	assert.Equal(t, "/api/v1/invoices", entries[0].ContextMap()["path"])
}
