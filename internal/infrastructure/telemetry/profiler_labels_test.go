package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelerp/backend/internal/infrastructure/telemetry"
)

func labelInside(t *testing.T, labels map[string]string, key string) (string, bool) {
	t.Helper()
	var value string
	var ok bool
	telemetry.WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		value, ok = pprof.Label(ctx, key)
	})
	return value, ok
}

func TestWithProfilingLabels_AttachesLabels(t *testing.T) {
	labels := telemetry.OperationLabels("gst_reconcile", map[string]string{
		telemetry.ProfilingLabelTenantID: "shop-jaipur-01",
	})

	op, ok := labelInside(t, labels, telemetry.ProfilingLabelOperation)
	require.True(t, ok)
	assert.Equal(t, "gst_reconcile", op)

	tenant, ok := labelInside(t, labels, telemetry.ProfilingLabelTenantID)
	require.True(t, ok)
	assert.Equal(t, "shop-jaipur-01", tenant)
}

func TestWithProfilingLabels_EmptyMapStillRuns(t *testing.T) {
	ran := false
	telemetry.WithProfilingLabels(context.Background(), nil, func(context.Context) {
		ran = true
	})
	assert.True(t, ran)
}

func TestWithProfilingLabels_DropsHighCardinalityKeys(t *testing.T) {
	labels := map[string]string{
		"invoice_id":                     "INV-2026-0042",
		"request_id":                     "req-7f3a",
		telemetry.ProfilingLabelRegion:   "statement_parse",
		telemetry.ProfilingLabelTenantID: "shop-jaipur-01",
	}

	_, ok := labelInside(t, labels, "invoice_id")
	assert.False(t, ok)
	_, ok = labelInside(t, labels, "request_id")
	assert.False(t, ok)

	region, ok := labelInside(t, labels, telemetry.ProfilingLabelRegion)
	require.True(t, ok)
	assert.Equal(t, "statement_parse", region)
}

func TestWithProfilingLabels_TruncatesLongValues(t *testing.T) {
	long := strings.Repeat("x", telemetry.MaxLabelValueLength+40)
	value, ok := labelInside(t, map[string]string{"operation": long}, "operation")
	require.True(t, ok)
	assert.Len(t, value, telemetry.MaxLabelValueLength)
}

func TestWithProfilingLabels_SanitizesKeys(t *testing.T) {
	labels := map[string]string{
		"Filing Period": "2026-07",
		"match-status":  "matched",
		"@@@":           "dropped entirely",
		"":              "no key",
		"empty_value":   "",
	}

	period, ok := labelInside(t, labels, "filing_period")
	require.True(t, ok)
	assert.Equal(t, "2026-07", period)

	status, ok := labelInside(t, labels, "match_status")
	require.True(t, ok)
	assert.Equal(t, "matched", status)

	_, ok = labelInside(t, labels, "empty_value")
	assert.False(t, ok)
}

func TestOperationLabels(t *testing.T) {
	labels := telemetry.OperationLabels("invoice_create", map[string]string{
		telemetry.ProfilingLabelTenantID: "shop-mumbai-02",
	})
	assert.Equal(t, "invoice_create", labels[telemetry.ProfilingLabelOperation])
	assert.Equal(t, "shop-mumbai-02", labels[telemetry.ProfilingLabelTenantID])
}

func TestRegionLabels(t *testing.T) {
	labels := telemetry.RegionLabels("db_query", nil)
	assert.Equal(t, "db_query", labels[telemetry.ProfilingLabelRegion])
	assert.Len(t, labels, 1)
}
