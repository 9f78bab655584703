package gst

import (
	"context"
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/jewelerp/backend/internal/domain/gst"
	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/jewelerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatementArchive keeps the raw portal payloads so a filed return can
// be traced back to the exact statement it was reconciled against.
// A nil archive disables archival.
type StatementArchive interface {
	Store(ctx context.Context, tenantID uuid.UUID, source, period string, payload []byte) (string, error)
}

// MetricsRecorder receives statement import and reconciliation events.
// A nil recorder disables emission.
type MetricsRecorder interface {
	RecordStatementImport(ctx context.Context, tenantID uuid.UUID, source string, recordCount int64)
	RecordReconciliationEntries(ctx context.Context, tenantID uuid.UUID, source, matchStatus string, count int64)
}

// GSTService builds GST returns from the invoice and purchase registers
// and reconciles them against imported portal statements.
type GSTService struct {
	invoiceRepo  billing.InvoiceRepository
	purchaseRepo purchasing.PurchaseOrderRepository
	gstr2aRepo   gst.GSTR2ARepository
	gstr2bRepo   gst.GSTR2BRepository
	reconciler   *gst.ReconciliationService
	builder3b    *gst.GSTR3BBuilder
	archive      StatementArchive
	metrics      MetricsRecorder
	logger       *zap.Logger
}

// NewGSTService creates a new GSTService. netTaxPolicy may be empty to
// default to clamp-to-zero.
func NewGSTService(
	invoiceRepo billing.InvoiceRepository,
	purchaseRepo purchasing.PurchaseOrderRepository,
	gstr2aRepo gst.GSTR2ARepository,
	gstr2bRepo gst.GSTR2BRepository,
	archive StatementArchive,
	netTaxPolicy string,
	logger *zap.Logger,
) (*GSTService, error) {
	builder, err := gst.NewGSTR3BBuilder(gst.NetTaxPolicy(netTaxPolicy))
	if err != nil {
		return nil, err
	}
	return &GSTService{
		invoiceRepo:  invoiceRepo,
		purchaseRepo: purchaseRepo,
		gstr2aRepo:   gstr2aRepo,
		gstr2bRepo:   gstr2bRepo,
		reconciler:   gst.NewReconciliationService(),
		builder3b:    builder,
		archive:      archive,
		logger:       logger,
	}, nil
}

// SetMetricsRecorder attaches a business metrics recorder. Must be
// called before the service starts handling requests.
func (s *GSTService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// GSTR1Report builds the outward supply return for a filing period
func (s *GSTService) GSTR1Report(ctx context.Context, tenantID uuid.UUID, rawPeriod string) (*gst.GSTR1Summary, error) {
	period, err := gst.ParseFilingPeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoicesForPeriod(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	return gst.BuildGSTR1(period, invoices), nil
}

// GSTR3BReport builds the monthly summary return for a filing period
func (s *GSTService) GSTR3BReport(ctx context.Context, tenantID uuid.UUID, rawPeriod string) (*gst.GSTR3BSummary, error) {
	period, err := gst.ParseFilingPeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoicesForPeriod(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	purchases, err := s.purchasesForPeriod(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	return s.builder3b.Build(period, invoices, purchases), nil
}

// HSNReport builds the HSN-wise outward supply summary for a period
func (s *GSTService) HSNReport(ctx context.Context, tenantID uuid.UUID, rawPeriod string) (*gst.HSNSummary, error) {
	period, err := gst.ParseFilingPeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoicesForPeriod(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	return gst.BuildHSNSummary(period, invoices), nil
}

// ImportGSTR2A replaces the period's GSTR-2A records with the ones in
// the portal export payload
func (s *GSTService) ImportGSTR2A(ctx context.Context, tenantID uuid.UUID, rawPeriod string, payload []byte) (*ImportStatementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gst", "import_gstr2a")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrStatementSource, string(gst.Source2A),
		telemetry.SpanAttrFilingPeriod, rawPeriod,
	)

	period, err := gst.ParseFilingPeriod(rawPeriod)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	records, err := gst.ParseGSTR2A(tenantID, period, payload)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	existing, err := s.gstr2aRepo.CountByPeriod(ctx, tenantID, period.String())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.gstr2aRepo.ReplaceForPeriod(ctx, tenantID, period.String(), records); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, "record_count", len(records))

	response := &ImportStatementResponse{
		Period:      period.String(),
		Source:      string(gst.Source2A),
		RecordCount: len(records),
		Replaced:    existing > 0,
		ImportedAt:  time.Now(),
	}
	response.ArchiveKey = s.archivePayload(ctx, tenantID, string(gst.Source2A), period.String(), payload)

	if s.metrics != nil {
		s.metrics.RecordStatementImport(ctx, tenantID, string(gst.Source2A), int64(len(records)))
	}

	s.logger.Info("imported GSTR-2A statement",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", period.String()),
		zap.Int("records", len(records)),
		zap.Bool("replaced", response.Replaced))
	return response, nil
}

// ImportGSTR2B replaces the period's GSTR-2B records with the ones in
// the portal export payload
func (s *GSTService) ImportGSTR2B(ctx context.Context, tenantID uuid.UUID, rawPeriod string, payload []byte) (*ImportStatementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gst", "import_gstr2b")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrStatementSource, string(gst.Source2B),
		telemetry.SpanAttrFilingPeriod, rawPeriod,
	)

	period, err := gst.ParseFilingPeriod(rawPeriod)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	records, err := gst.ParseGSTR2B(tenantID, period, payload)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	existing, err := s.gstr2bRepo.CountByPeriod(ctx, tenantID, period.String())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.gstr2bRepo.ReplaceForPeriod(ctx, tenantID, period.String(), records); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, "record_count", len(records))

	response := &ImportStatementResponse{
		Period:      period.String(),
		Source:      string(gst.Source2B),
		RecordCount: len(records),
		Replaced:    existing > 0,
		ImportedAt:  time.Now(),
	}
	response.ArchiveKey = s.archivePayload(ctx, tenantID, string(gst.Source2B), period.String(), payload)

	if s.metrics != nil {
		s.metrics.RecordStatementImport(ctx, tenantID, string(gst.Source2B), int64(len(records)))
	}

	s.logger.Info("imported GSTR-2B statement",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", period.String()),
		zap.Int("records", len(records)),
		zap.Bool("replaced", response.Replaced))
	return response, nil
}

// Reconcile matches the period's purchase register against both
// imported statements and works out the ITC split
func (s *GSTService) Reconcile(ctx context.Context, tenantID uuid.UUID, rawPeriod string) (*gst.ReconciliationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gst", "reconcile",
		telemetry.WithAttribute(telemetry.SpanAttrFilingPeriod, rawPeriod))
	defer span.End()

	period, err := gst.ParseFilingPeriod(rawPeriod)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	purchases, err := s.purchasesForPeriod(ctx, tenantID, period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	records2a, err := s.gstr2aRepo.FindByPeriod(ctx, tenantID, period.String())
	if err != nil {
		return nil, err
	}
	gstr2a := make([]gst.PortalInvoice, 0, len(records2a))
	for idx := range records2a {
		gstr2a = append(gstr2a, records2a[idx].AsPortalInvoice())
	}

	records2b, err := s.gstr2bRepo.FindByPeriod(ctx, tenantID, period.String())
	if err != nil {
		return nil, err
	}
	gstr2b := make([]gst.PortalInvoice, 0, len(records2b))
	for idx := range records2b {
		gstr2b = append(gstr2b, records2b[idx].AsPortalInvoice())
	}

	// Matching is the hot path when a busy period has thousands of
	// statement rows, so it runs under profile labels
	var result *gst.ReconciliationResult
	telemetry.WithProfilingLabels(ctx,
		telemetry.OperationLabels("gst_reconcile", map[string]string{
			telemetry.ProfilingLabelTenantID: tenantID.String(),
		}),
		func(context.Context) {
			result, err = s.reconciler.Reconcile(period, gstr2a, gstr2b, purchases)
		})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		"matched_count", result.MatchedCount,
		"discrepancy_count", len(result.Discrepancies),
		telemetry.SpanAttrAmount, result.ITCClaimable.StringFixed(2),
	)

	if s.metrics != nil {
		s.metrics.RecordReconciliationEntries(ctx, tenantID, "2a+2b", "matched", int64(result.MatchedCount))
		byType := make(map[gst.DiscrepancyType]int64)
		for idx := range result.Discrepancies {
			byType[result.Discrepancies[idx].Type]++
		}
		for discrepancyType, count := range byType {
			s.metrics.RecordReconciliationEntries(ctx, tenantID, "2a+2b", string(discrepancyType), count)
		}
	}

	s.logger.Info("reconciled purchase register",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", period.String()),
		zap.Int("matched", result.MatchedCount),
		zap.String("itc_claimable", result.ITCClaimable.StringFixed(2)),
		zap.Int("discrepancies", len(result.Discrepancies)))
	return result, nil
}

// ITCSummary totals the credit the imported GSTR-2B statement makes
// available for the period
func (s *GSTService) ITCSummary(ctx context.Context, tenantID uuid.UUID, rawPeriod string) (*ITCSummaryResponse, error) {
	period, err := gst.ParseFilingPeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	records, err := s.gstr2bRepo.FindByPeriod(ctx, tenantID, period.String())
	if err != nil {
		return nil, err
	}

	summary := &ITCSummaryResponse{Period: period.String()}
	for idx := range records {
		record := &records[idx]
		total := record.CGSTAmount.Add(record.SGSTAmount).Add(record.IGSTAmount).Round(2)
		if !record.ITCAvailable {
			summary.UnavailableCount++
			summary.UnavailableTotal = summary.UnavailableTotal.Add(total)
			continue
		}
		summary.InvoiceCount++
		summary.AvailableCGST = summary.AvailableCGST.Add(record.CGSTAmount.Round(2))
		summary.AvailableSGST = summary.AvailableSGST.Add(record.SGSTAmount.Round(2))
		summary.AvailableIGST = summary.AvailableIGST.Add(record.IGSTAmount.Round(2))
		summary.AvailableTotal = summary.AvailableTotal.Add(total)
	}
	return summary, nil
}

func (s *GSTService) invoicesForPeriod(ctx context.Context, tenantID uuid.UUID, period gst.FilingPeriod) ([]billing.Invoice, error) {
	from, to := period.DateRange()
	return s.invoiceRepo.FindByDateRange(ctx, tenantID, from, to)
}

func (s *GSTService) purchasesForPeriod(ctx context.Context, tenantID uuid.UUID, period gst.FilingPeriod) ([]purchasing.PurchaseOrder, error) {
	from, to := period.DateRange()
	return s.purchaseRepo.FindByInvoiceDateRange(ctx, tenantID, from, to)
}

func (s *GSTService) archivePayload(ctx context.Context, tenantID uuid.UUID, source, period string, payload []byte) string {
	if s.archive == nil {
		return ""
	}
	key, err := s.archive.Store(ctx, tenantID, source, period, payload)
	if err != nil {
		s.logger.Warn("failed to archive portal statement",
			zap.String("tenant_id", tenantID.String()),
			zap.String("source", source),
			zap.String("period", period),
			zap.Error(err))
		return ""
	}
	return key
}

// ListStatements returns one page of the period's imported 2A or 2B
// records for review after an import or a disputed reconciliation
func (s *GSTService) ListStatements(ctx context.Context, tenantID uuid.UUID, rawSource string, filter StatementListFilter) ([]StatementRecordResponse, int64, error) {
	period, err := gst.ParseFilingPeriod(filter.Period)
	if err != nil {
		return nil, 0, err
	}

	page := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.PageSize <= 0 {
		page.PageSize = 50
	}

	switch gst.ReconciliationSource(rawSource) {
	case gst.Source2A:
		records, total, err := s.gstr2aRepo.FindPageByPeriod(ctx, tenantID, period.String(), page)
		if err != nil {
			return nil, 0, err
		}
		responses := make([]StatementRecordResponse, 0, len(records))
		for idx := range records {
			r := &records[idx]
			responses = append(responses, StatementRecordResponse{
				SupplierGSTIN: r.SupplierGSTIN.String(),
				SupplierName:  r.SupplierName,
				InvoiceNumber: r.InvoiceNumber,
				InvoiceDate:   r.InvoiceDate,
				InvoiceValue:  r.InvoiceValue,
				TaxableValue:  r.TaxableValue,
				CGSTAmount:    r.CGSTAmount,
				SGSTAmount:    r.SGSTAmount,
				IGSTAmount:    r.IGSTAmount,
			})
		}
		return responses, total, nil
	case gst.Source2B:
		records, total, err := s.gstr2bRepo.FindPageByPeriod(ctx, tenantID, period.String(), page)
		if err != nil {
			return nil, 0, err
		}
		responses := make([]StatementRecordResponse, 0, len(records))
		for idx := range records {
			r := &records[idx]
			available := r.ITCAvailable
			responses = append(responses, StatementRecordResponse{
				SupplierGSTIN: r.SupplierGSTIN.String(),
				SupplierName:  r.SupplierName,
				InvoiceNumber: r.InvoiceNumber,
				InvoiceDate:   r.InvoiceDate,
				InvoiceValue:  r.InvoiceValue,
				TaxableValue:  r.TaxableValue,
				CGSTAmount:    r.CGSTAmount,
				SGSTAmount:    r.SGSTAmount,
				IGSTAmount:    r.IGSTAmount,
				ITCAvailable:  &available,
			})
		}
		return responses, total, nil
	default:
		return nil, 0, shared.NewValidationError("Statement source must be 2A or 2B")
	}
}
