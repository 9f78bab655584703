package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jewelerp/backend/internal/infrastructure/telemetry"
)

// HTTPMetricsConfig controls request metrics collection.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	ServiceName   string
	Enabled       bool
}

// DefaultHTTPMetricsConfig returns the default metrics configuration.
func DefaultHTTPMetricsConfig() HTTPMetricsConfig {
	return HTTPMetricsConfig{
		ServiceName: "jewelerp-backend",
		Enabled:     true,
	}
}

// httpMetrics bundles the per-request instruments. Statement imports
// push multi-megabyte GSTR payloads, hence the wide size buckets.
type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	requestSize     *telemetry.Histogram
	responseSize    *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(
		meter,
		"http_server_request_total",
		"Total number of HTTP requests",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	sizeBuckets := []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000, 5000000}
	requestSize, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "HTTP request body size distribution in bytes",
		Unit:        "By",
		Boundaries:  sizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	responseSize, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size distribution in bytes",
		Unit:        "By",
		Boundaries:  sizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestSize:     requestSize,
		responseSize:    responseSize,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics records request count, latency and payload sizes per
// route. The counter carries the tenant label so per-shop traffic and
// error rates can be charted; the histograms stay method+route only
// to keep cardinality down.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("http.server"), true)
}

// HTTPMetricsWithMeter builds the middleware from an explicit meter.
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	metrics, err := newHTTPMetrics(meter)
	if err != nil {
		// Broken instrument registration must not take the API down.
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		metrics.activeRequests.Add(ctx, 1)
		c.Next()
		metrics.activeRequests.Add(ctx, -1)

		recordHTTPMetrics(ctx, metrics, requestSample{
			method:       c.Request.Method,
			route:        routePattern(c),
			statusCode:   c.Writer.Status(),
			tenantID:     metricTenantID(c),
			duration:     time.Since(start),
			requestSize:  c.Request.ContentLength,
			responseSize: c.Writer.Size(),
		})
	}
}

type requestSample struct {
	method       string
	route        string
	statusCode   int
	tenantID     string
	duration     time.Duration
	requestSize  int64
	responseSize int
}

func recordHTTPMetrics(ctx context.Context, metrics *httpMetrics, sample requestSample) {
	countAttrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(sample.method),
		telemetry.AttrHTTPRoute.String(sample.route),
		telemetry.AttrHTTPStatusCode.Int(sample.statusCode),
	}
	if sample.tenantID != "" {
		countAttrs = append(countAttrs, telemetry.AttrTenantID.String(sample.tenantID))
	}
	metrics.requestTotal.Inc(ctx, countAttrs...)

	baseAttrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(sample.method),
		telemetry.AttrHTTPRoute.String(sample.route),
	}
	metrics.requestDuration.RecordDuration(ctx, sample.duration, baseAttrs...)

	if sample.requestSize > 0 {
		metrics.requestSize.Record(ctx, float64(sample.requestSize), baseAttrs...)
	}
	if sample.responseSize > 0 {
		metrics.responseSize.Record(ctx, float64(sample.responseSize), baseAttrs...)
	}
}

// routePattern prefers gin's matched pattern ("/api/v1/catalog/products/:id")
// over the raw path so product IDs and filing periods don't explode
// the label space.
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

func metricTenantID(c *gin.Context) string {
	if claim, exists := c.Get(JWTTenantIDKey); exists {
		if id, ok := claim.(string); ok {
			return id
		}
	}
	return ""
}
