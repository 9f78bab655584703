package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Label keys for slicing profiles in the Pyroscope UI.
const (
	ProfilingLabelOperation = "operation"
	ProfilingLabelTenantID  = "tenant_id"
	ProfilingLabelRegion    = "region"
)

// MaxLabelValueLength caps label values; longer values blow up series
// cardinality in Pyroscope.
const MaxLabelValueLength = 128

// highCardinalityLabels are keys that must never become profile
// labels. tenant_id is deliberately allowed: shops number in the tens,
// not the millions.
var highCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"invoice_id": true,
	"trace_id":   true,
	"span_id":    true,
	"session_id": true,
}

// WithProfilingLabels runs fn with the given profile labels attached.
// The labels map is copied and sanitized first, so the caller may
// reuse it afterwards.
//
//	telemetry.WithProfilingLabels(ctx,
//	    telemetry.OperationLabels("gst_reconcile", nil),
//	    func(ctx context.Context) { ... })
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// OperationLabels builds the label set for a named operation.
func OperationLabels(operation string, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(extra)+1)
	labels[ProfilingLabelOperation] = operation
	maps.Copy(labels, extra)
	return labels
}

// RegionLabels builds the label set for a code region such as
// "db_query" or "statement_parse".
func RegionLabels(region string, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(extra)+1)
	labels[ProfilingLabelRegion] = region
	maps.Copy(labels, extra)
	return labels
}

// sanitizeLabels turns the map into the flat key/value slice pyroscope
// wants: empty and high-cardinality entries dropped, keys snake_cased,
// values truncated, output ordered by key so repeated calls produce
// the same series.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if key == "" || value == "" || highCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		sanitized := sanitizeLabelKey(key)
		if sanitized == "" {
			continue
		}
		pairs = append(pairs, sanitized, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases the key and strips everything outside
// [a-z0-9_], mapping spaces and dashes to underscores first.
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
