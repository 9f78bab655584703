// Package middleware provides the HTTP middleware stack for the
// jewellery ERP API.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Caps on header-sourced span attributes. Untrusted headers must not
// bloat the trace payload.
const (
	MaxRequestIDLength = 128
	MaxTenantIDLength  = 64
)

var tenantUUIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig holds tracing middleware settings
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig names the service for the collector
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "jewelerp-backend",
		Enabled:     true,
	}
}

// Tracing returns the OpenTelemetry middleware with defaults
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin and stamps each span with the acting
// shop, user and request ID, so a slow quote or statement import can
// be filtered by tenant in the trace backend. Span names follow
// otelgin's "METHOD route" pattern.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		// otelgin opens the span and runs the rest of the chain
		otelMiddleware(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			stampSpanIdentity(c, span)
		}
	}
}

func stampSpanIdentity(c *gin.Context, span trace.Span) {
	if requestID := spanRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if tenantID := spanTenantID(c); tenantID != "" {
		span.SetAttributes(attribute.String("tenant_id", tenantID))
	}
	if userID, ok := c.Get(JWTUserIDKey); ok {
		if id, isString := userID.(string); isString && id != "" {
			span.SetAttributes(attribute.String("user_id", id))
		}
	}
}

func spanRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// spanTenantID prefers the JWT claim; the header fallback is only
// accepted in UUID shape so arbitrary header text cannot reach the
// trace backend.
func spanTenantID(c *gin.Context) string {
	if claim, ok := c.Get(JWTTenantIDKey); ok {
		if id, isString := claim.(string); isString && id != "" {
			return id
		}
	}
	header := c.GetHeader("X-Tenant-ID")
	if header != "" && len(header) <= MaxTenantIDLength && tenantUUIDRegex.MatchString(header) {
		return header
	}
	return ""
}

// SpanErrorMarker flags 4xx/5xx responses as span errors. It must sit
// after Tracing in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, statusText(statusCode))
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}

func statusText(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "Internal Server Error"
	case statusCode == http.StatusUnauthorized:
		return "Unauthorized"
	case statusCode == http.StatusForbidden:
		return "Forbidden"
	case statusCode == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}
