package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jewelerp/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTenantValidator struct {
	info *TenantInfo
	err  error
}

func (v *stubTenantValidator) ValidateTenant(tenantID string) (*TenantInfo, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.info, nil
}

func newTenantRouter(cfg TenantMiddlewareConfig, capture func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(cfg))
	router.GET("/api/v1/pricing/gold-rates", func(c *gin.Context) {
		if capture != nil {
			capture(c)
		}
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestTenantMiddleware_FromJWTClaim(t *testing.T) {
	shopID := uuid.NewString()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Simulate the auth middleware planting the claim first
	router.Use(func(c *gin.Context) { c.Set("jwt_tenant_id", shopID) })
	router.Use(TenantMiddlewareWithConfig(TenantMiddlewareConfig{JWTEnabled: true, Required: true}))

	var got string
	router.GET("/api/v1/pricing/gold-rates", func(c *gin.Context) {
		got = GetTenantID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, shopID, got)
}

func TestTenantMiddleware_JWTClaimBeatsHeader(t *testing.T) {
	claimID := uuid.NewString()
	headerID := uuid.NewString()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("jwt_tenant_id", claimID) })
	router.Use(TenantMiddlewareWithConfig(TenantMiddlewareConfig{JWTEnabled: true, HeaderEnabled: true, Required: true}))

	var got string
	router.GET("/api/v1/pricing/gold-rates", func(c *gin.Context) {
		got = GetTenantID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil)
	req.Header.Set(TenantHeaderKey, headerID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// A token holder must not redirect the request at another shop
	assert.Equal(t, claimID, got)
}

func TestTenantMiddleware_HeaderFallback(t *testing.T) {
	shopID := uuid.NewString()
	var got string
	router := newTenantRouter(TenantMiddlewareConfig{HeaderEnabled: true, Required: true}, func(c *gin.Context) {
		got = GetTenantID(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil)
	req.Header.Set(TenantHeaderKey, shopID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, shopID, got)
}

func TestTenantMiddleware_RequiredRejectsAnonymous(t *testing.T) {
	router := newTenantRouter(TenantMiddlewareConfig{HeaderEnabled: true, Required: true}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Tenant identification required")
}

func TestTenantMiddleware_OptionalAllowsAnonymous(t *testing.T) {
	router := newTenantRouter(TenantMiddlewareConfig{HeaderEnabled: true, Required: false}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_RejectsMalformedID(t *testing.T) {
	router := newTenantRouter(TenantMiddlewareConfig{HeaderEnabled: true, Required: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil)
	req.Header.Set(TenantHeaderKey, "shop-jaipur-not-a-uuid")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid tenant ID format")
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	cfg := DefaultTenantConfig()
	router := newTenantRouter(cfg, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_Validator(t *testing.T) {
	shopID := uuid.New()

	t.Run("active shop passes and exposes its code", func(t *testing.T) {
		validator := &stubTenantValidator{info: &TenantInfo{ID: shopID, Code: "JAIPUR-01"}}
		var code string
		router := newTenantRouter(TenantMiddlewareConfig{HeaderEnabled: true, Required: true, Validator: validator}, func(c *gin.Context) {
			code = GetTenantCode(c)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil)
		req.Header.Set(TenantHeaderKey, shopID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "JAIPUR-01", code)
	})

	t.Run("suspended shop is refused", func(t *testing.T) {
		validator := &stubTenantValidator{err: errors.New("tenant suspended")}
		router := newTenantRouter(TenantMiddlewareConfig{HeaderEnabled: true, Required: true, Validator: validator}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil)
		req.Header.Set(TenantHeaderKey, shopID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or inactive tenant")
	})
}

func TestTenantMiddleware_StampsRequestContext(t *testing.T) {
	shopID := uuid.NewString()
	var stamped string
	router := newTenantRouter(TenantMiddlewareConfig{HeaderEnabled: true, Required: true}, func(c *gin.Context) {
		// The persistence tenant scope reads the stamp off the context
		stamped = logger.GetTenantID(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/gold-rates", nil)
	req.Header.Set(TenantHeaderKey, shopID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, shopID, stamped)
}

func TestGetTenantUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("parses the stored id", func(t *testing.T) {
		shopID := uuid.New()
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(TenantIDKey, shopID.String())

		parsed, err := GetTenantUUID(c)
		require.NoError(t, err)
		assert.Equal(t, shopID, parsed)
	})

	t.Run("nil without a tenant", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		parsed, err := GetTenantUUID(c)
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, parsed)
	})
}
