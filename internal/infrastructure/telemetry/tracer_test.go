package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jewelerp/backend/internal/infrastructure/telemetry"
)

// shortCtx bounds exporter calls so tests stay fast when no collector
// is listening.
func shortCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newEnabledTracer(t *testing.T, samplingRatio float64) *telemetry.TracerProvider {
	t.Helper()

	tp, err := telemetry.NewTracerProvider(shortCtx(t), telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     samplingRatio,
		ServiceName:       "jewelerp-backend-test",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		// The collector is not running; a flush error is expected,
		// the call just must not hang.
		_ = tp.Shutdown(shortCtx(t))
	})
	return tp
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled: false,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("pricing"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	tp := newEnabledTracer(t, 1.0)

	assert.True(t, tp.IsEnabled())
	assert.Equal(t, "jewelerp-backend-test", tp.GetConfig().ServiceName)

	// A span can be started and ended without a live collector
	tracer := tp.Tracer("gst")
	_, span := tracer.Start(context.Background(), "reconcile-period")
	span.End()
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	for _, ratio := range []float64{0.0, 0.25, 1.0} {
		tp := newEnabledTracer(t, ratio)
		assert.True(t, tp.IsEnabled())
		assert.Equal(t, ratio, tp.GetConfig().SamplingRatio)
	}
}

func TestTracerProvider_ShutdownIsBounded(t *testing.T) {
	tp := newEnabledTracer(t, 1.0)

	_, span := tp.Tracer("billing").Start(context.Background(), "create-invoice")
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The pending span cannot reach a collector; shutdown must return
	// quickly instead of retrying the export.
	start := time.Now()
	_ = tp.Shutdown(ctx)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestTracerProvider_SpanProfiles(t *testing.T) {
	t.Run("disabled provider is a no-op", func(t *testing.T) {
		tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled: false,
		}, zaptest.NewLogger(t))
		require.NoError(t, err)

		require.NoError(t, tp.EnableSpanProfiles())
		assert.False(t, tp.IsSpanProfilesEnabled())
	})

	t.Run("enabled provider flips once", func(t *testing.T) {
		tp := newEnabledTracer(t, 1.0)
		assert.False(t, tp.IsSpanProfilesEnabled())

		require.NoError(t, tp.EnableSpanProfiles())
		assert.True(t, tp.IsSpanProfilesEnabled())

		// Second call is idempotent
		require.NoError(t, tp.EnableSpanProfiles())
		assert.True(t, tp.IsSpanProfilesEnabled())
	})
}
