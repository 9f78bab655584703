package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Request identity travels on the context so the layers below HTTP can
// see who is acting without extra parameters: the tenant callbacks
// scope every GORM query by the stamped tenant ID, and the SQL logger
// correlates slow queries back to the request.
type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
	tenantIDKey
	userIDKey
)

// WithContext attaches the logger to the context.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the attached logger, or a no-op logger when the
// context carries none.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

func stamp(ctx context.Context, log *zap.Logger, key contextKey, field, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	log = log.With(zap.String(field, value))
	return WithContext(ctx, log), log
}

// WithRequestID stamps the request ID on context and logger.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return stamp(ctx, log, requestIDKey, "request_id", requestID)
}

// WithTenantID stamps the acting shop's tenant ID on context and logger.
func WithTenantID(ctx context.Context, log *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	return stamp(ctx, log, tenantIDKey, "tenant_id", tenantID)
}

// WithUserID stamps the authenticated user on context and logger.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return stamp(ctx, log, userIDKey, "user_id", userID)
}

func stringFrom(ctx context.Context, key contextKey) string {
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}

// GetRequestID returns the stamped request ID, or ""
func GetRequestID(ctx context.Context) string {
	return stringFrom(ctx, requestIDKey)
}

// GetTenantID returns the stamped tenant ID, or "". The persistence
// tenant scope reads this for every query.
func GetTenantID(ctx context.Context) string {
	return stringFrom(ctx, tenantIDKey)
}

// GetUserID returns the stamped user ID, or ""
func GetUserID(ctx context.Context) string {
	return stringFrom(ctx, userIDKey)
}

// WithTraceContext adds trace_id and span_id from the active span so a
// slow pricing quote or statement import can be followed into the
// collector. Without a valid span the logger comes back unchanged.
func WithTraceContext(ctx context.Context, log *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
