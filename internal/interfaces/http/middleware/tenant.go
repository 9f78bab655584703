package middleware

import (
	"net/http"
	"strings"

	"github.com/jewelerp/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Keys under which the acting shop is stored in gin.Context
const (
	TenantIDKey     = "tenant_id"
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo identifies one shop on the platform
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// TenantValidator checks that a tenant exists and has not been
// suspended. Optional; without one the middleware only checks the ID
// shape.
type TenantValidator interface {
	ValidateTenant(tenantID string) (*TenantInfo, error)
}

// TenantMiddlewareConfig configures shop identification
type TenantMiddlewareConfig struct {
	// JWTEnabled reads the tenant from the JWT claims planted by the
	// auth middleware, which must run first
	JWTEnabled bool
	// HeaderEnabled falls back to the X-Tenant-ID header, used by
	// service-to-service calls that carry no user token
	HeaderEnabled bool
	// SkipPaths bypass identification entirely (health, ping)
	SkipPaths []string
	// Required rejects requests with no identifiable tenant
	Required bool
	// Validator optionally verifies the tenant against the registry
	Validator TenantValidator
	Logger    *zap.Logger
}

// DefaultTenantConfig prefers the JWT claim and requires a tenant
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		JWTEnabled:    true,
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:      true,
	}
}

// TenantMiddleware identifies the shop with the default configuration
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig resolves which shop the request acts for
// and stamps it on the request context, where the SQL logger and the
// tenant-scoped GORM callbacks pick it up. JWT claims win over the
// header: a token holder cannot point a request at another shop by
// spoofing X-Tenant-ID.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		tenantID, source := resolveTenant(c, cfg)

		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				respondUnauthorized(c, "Invalid tenant ID format")
				return
			}
		}
		if tenantID == "" && cfg.Required {
			respondUnauthorized(c, "Tenant identification required")
			return
		}

		var info *TenantInfo
		if tenantID != "" && cfg.Validator != nil {
			validated, err := cfg.Validator.ValidateTenant(tenantID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Tenant validation failed",
					zap.String("tenant_id", tenantID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive tenant")
				return
			}
			info = validated
		}

		if tenantID != "" {
			c.Set(TenantIDKey, tenantID)
			if info != nil {
				c.Set(TenantCodeKey, info.Code)
			}

			ctx := c.Request.Context()
			ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Tenant identified",
					zap.String("tenant_id", tenantID),
					zap.String("source", source),
				)
			}
		}

		c.Next()
	}
}

func resolveTenant(c *gin.Context, cfg TenantMiddlewareConfig) (tenantID, source string) {
	if cfg.JWTEnabled {
		if claim, exists := c.Get("jwt_tenant_id"); exists {
			if id, ok := claim.(string); ok && id != "" {
				return id, "jwt"
			}
		}
	}
	if cfg.HeaderEnabled {
		if id := c.GetHeader(TenantHeaderKey); id != "" {
			return id, "header"
		}
	}
	return "", ""
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID returns the shop identified for this request, or ""
func GetTenantID(c *gin.Context) string {
	if value, exists := c.Get(TenantIDKey); exists {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// GetTenantUUID returns the identified shop as a UUID. uuid.Nil means
// no tenant was identified.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// GetTenantCode returns the validated shop code, or ""
func GetTenantCode(c *gin.Context) string {
	if value, exists := c.Get(TenantCodeKey); exists {
		if code, ok := value.(string); ok {
			return code
		}
	}
	return ""
}
