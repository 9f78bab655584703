// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the ERP system.
// It tracks invoice issuance, GST statement imports, reconciliation
// outcomes, and rate board freshness.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	invoiceIssuedTotal    *Counter
	invoiceTaxTotal       *Counter
	statementImportTotal  *Counter
	reconciliationEntries *Counter

	// Gauge metrics (point-in-time values)
	goldRateAgeHours *FloatGauge
	goldRateKarats   *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	rateBoardProvider RateBoardMetricsProvider
}

// RateBoardMetricsProvider provides rate board data for periodic metrics
// collection. This interface allows the telemetry layer to query rate
// state without depending on the pricing domain directly.
type RateBoardMetricsProvider interface {
	// GetLatestRateAge returns the age of the newest active gold rate for a tenant
	GetLatestRateAge(ctx context.Context, tenantID uuid.UUID) (time.Duration, error)

	// GetActiveKaratCount returns the number of karats with an active rate for a tenant
	GetActiveKaratCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	RateBoardProvider RateBoardMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		rateBoardProvider: cfg.RateBoardProvider,
	}

	// Initialize counter metrics
	var err error

	// Invoice metrics
	bm.invoiceIssuedTotal, err = NewCounter(
		cfg.Meter,
		"erp_invoice_issued_total",
		"Total number of tax invoices issued",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.invoiceTaxTotal, err = NewCounter(
		cfg.Meter,
		"erp_invoice_tax_total",
		"Total GST charged on issued invoices, in paise",
		"{paise}",
	)
	if err != nil {
		return nil, err
	}

	// GST statement metrics
	bm.statementImportTotal, err = NewCounter(
		cfg.Meter,
		"erp_gst_statement_import_total",
		"Total number of portal statement records imported",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	bm.reconciliationEntries, err = NewCounter(
		cfg.Meter,
		"erp_gst_reconciliation_entries_total",
		"Total reconciliation entries produced, by match status",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	// Rate board gauge metrics
	bm.goldRateAgeHours, err = NewFloatGauge(
		cfg.Meter,
		"erp_gold_rate_age_hours",
		"Age of the newest active gold rate",
		"h",
	)
	if err != nil {
		return nil, err
	}

	bm.goldRateKarats, err = NewGauge(
		cfg.Meter,
		"erp_gold_rate_active_karats",
		"Number of karats with an active published rate",
		"{karats}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Invoice Metrics
// =============================================================================

// RecordInvoiceIssued records an invoice issuance event.
// This should be called from the application layer when an invoice is issued.
func (bm *BusinessMetrics) RecordInvoiceIssued(ctx context.Context, tenantID uuid.UUID, supplyType string) {
	bm.invoiceIssuedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrSupplyType.String(supplyType),
	)
}

// RecordInvoiceTax records the GST charged on an invoice.
// Amount should be in the smallest currency unit (paise).
func (bm *BusinessMetrics) RecordInvoiceTax(ctx context.Context, tenantID uuid.UUID, supplyType string, taxPaise int64) {
	bm.invoiceTaxTotal.Add(ctx, taxPaise,
		AttrTenantID.String(tenantID.String()),
		AttrSupplyType.String(supplyType),
	)
}

// RecordInvoiceWithTax is a convenience method that records both the issuance and the tax amount.
func (bm *BusinessMetrics) RecordInvoiceWithTax(ctx context.Context, tenantID uuid.UUID, supplyType string, tax decimal.Decimal) {
	bm.RecordInvoiceIssued(ctx, tenantID, supplyType)

	// Convert to paise (multiply by 100)
	taxPaise := tax.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordInvoiceTax(ctx, tenantID, supplyType, taxPaise)
}

// =============================================================================
// GST Statement Metrics
// =============================================================================

// RecordStatementImport records the number of records taken in from a
// portal statement import.
func (bm *BusinessMetrics) RecordStatementImport(ctx context.Context, tenantID uuid.UUID, source string, recordCount int64) {
	bm.statementImportTotal.Add(ctx, recordCount,
		AttrTenantID.String(tenantID.String()),
		AttrStatementSource.String(source),
	)
}

// RecordReconciliationEntries records the outcome of a reconciliation run.
// Each entry is labeled with its match status (matched, amount_mismatch,
// missing_in_2a, missing_in_2b, missing_locally).
func (bm *BusinessMetrics) RecordReconciliationEntries(ctx context.Context, tenantID uuid.UUID, source, matchStatus string, count int64) {
	if count <= 0 {
		return
	}
	bm.reconciliationEntries.Add(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrStatementSource.String(source),
		AttrMatchStatus.String(matchStatus),
	)
}

// =============================================================================
// Rate Board Metrics
// =============================================================================

// RecordGoldRateAge records the age of the newest active gold rate.
// This is a gauge metric that should be updated periodically. A rising
// value means nobody has published today's rate yet.
func (bm *BusinessMetrics) RecordGoldRateAge(ctx context.Context, tenantID uuid.UUID, age time.Duration) {
	bm.goldRateAgeHours.Record(ctx, age.Hours(),
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordActiveKaratCount records the number of karats with an active rate.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordActiveKaratCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.goldRateKarats.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects rate board metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectRateBoardMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectRateBoardMetrics(ctx, tenantProvider)
		}
	}
}

// collectRateBoardMetrics collects rate board gauge metrics for all tenants.
func (bm *BusinessMetrics) collectRateBoardMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.rateBoardProvider == nil {
		bm.logger.Debug("No rate board provider configured, skipping rate board metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantRateBoardMetrics(ctx, tenantID)
	}
}

// collectTenantRateBoardMetrics collects rate board metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantRateBoardMetrics(ctx context.Context, tenantID uuid.UUID) {
	age, err := bm.rateBoardProvider.GetLatestRateAge(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get gold rate age for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordGoldRateAge(ctx, tenantID, age)
	}

	karatCount, err := bm.rateBoardProvider.GetActiveKaratCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get active karat count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordActiveKaratCount(ctx, tenantID, karatCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Business metrics attribute keys not already defined in metrics.go
var (
	// Additional business attributes can be added here
	AttrRateSource = attribute.Key("rate_source")
)
