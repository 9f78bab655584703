package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jewelerp/backend/internal/infrastructure/auth"
	"github.com/jewelerp/backend/internal/infrastructure/logger"
)

// Keys under which the middleware stores claim values in gin.Context.
// Handlers read the shop and staff identity through these instead of
// re-parsing the token.
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTUsernameKey = "jwt_username"
)

const bearerScheme = "Bearer "

// JWTMiddlewareConfig configures the authentication middleware.
type JWTMiddlewareConfig struct {
	// JWTService validates access tokens. Required.
	JWTService *auth.JWTService
	// TokenBlacklist checks revoked tokens when set. Nil skips the check.
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are exact paths served without a token.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes served without a token.
	SkipPathPrefixes []string
	// OnError replaces the default 401 response when set.
	OnError func(c *gin.Context, err error)
	// Logger records auth failures and blacklist lookup errors.
	Logger *zap.Logger
}

// DefaultJWTConfig returns a config whose skip list covers the health endpoints
// and the login/refresh endpoints that hand out the tokens themselves.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

func (cfg JWTMiddlewareConfig) skips(path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken pulls the token out of the Authorization header. An empty
// string means the header was missing, malformed, or carried no token.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerScheme) {
		return ""
	}
	return strings.TrimPrefix(header, bearerScheme)
}

// JWTAuthMiddleware authenticates requests with the default config.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig authenticates every request outside the
// skip list. On success the shop and staff identity from the claims is
// published both to gin.Context and to the request context, so the
// tenant callbacks and request logging downstream see the same shop
// the token named.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			rejectUnauthenticated(c, cfg, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			rejectUnauthenticated(c, cfg, err)
			return
		}

		if checkRevocation(c, cfg, claims) {
			rejectUnauthenticated(c, cfg, auth.ErrTokenBlacklisted)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTUsernameKey, claims.Username)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		ctx, _ = logger.WithTenantID(ctx, log, claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// checkRevocation consults the blacklist for the token's JTI and for a
// user-wide "sign out everywhere" on the staff member. Lookup failures
// are logged and treated as not revoked; a counter that cannot reach
// Redis must keep billing.
func checkRevocation(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	if cfg.TokenBlacklist == nil {
		return false
	}
	ctx := c.Request.Context()

	if claims.ID != "" {
		revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Token revocation check failed",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		} else if revoked {
			return true
		}
	}

	if claims.UserID != "" {
		issuedAt := claims.GetIssuedAtTime()
		revoked, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, issuedAt)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("User-wide revocation check failed",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			}
		} else if revoked {
			return true
		}
	}
	return false
}

// authFailureCode maps validation errors to the wire error code and
// message. Unknown errors collapse to a generic UNAUTHORIZED so the
// response never describes what exactly failed.
func authFailureCode(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		return "INVALID_TOKEN_TYPE", "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "TOKEN_NOT_VALID", "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return "TOKEN_REVOKED", "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken):
		return "INVALID_TOKEN", "Invalid token"
	default:
		return "UNAUTHORIZED", "Authentication required"
	}
}

func rejectUnauthenticated(c *gin.Context, cfg JWTMiddlewareConfig, err error) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Request rejected at auth",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, message := authFailureCode(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetJWTClaims returns the validated claims, or nil when the request
// was not authenticated.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func contextString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetJWTUserID returns the staff member ID from the claims, or "".
func GetJWTUserID(c *gin.Context) string {
	return contextString(c, JWTUserIDKey)
}

// GetJWTTenantID returns the shop ID from the claims, or "".
func GetJWTTenantID(c *gin.Context) string {
	return contextString(c, JWTTenantIDKey)
}

// GetJWTUsername returns the login name from the claims, or "".
func GetJWTUsername(c *gin.Context) string {
	return contextString(c, JWTUsernameKey)
}
