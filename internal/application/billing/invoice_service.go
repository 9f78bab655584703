package billing

import (
	"context"
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/jewelerp/backend/internal/domain/catalog"
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MetricsRecorder receives invoice issuance events. A nil recorder
// disables emission.
type MetricsRecorder interface {
	RecordInvoiceWithTax(ctx context.Context, tenantID uuid.UUID, supplyType string, tax decimal.Decimal)
}

// InvoiceService handles sales invoicing. The seller state code comes
// from the tenant's GST registration and decides the supply type of
// every invoice.
type InvoiceService struct {
	invoiceRepo     billing.InvoiceRepository
	customerRepo    partner.CustomerRepository
	productRepo     catalog.ProductRepository
	sellerStateCode string
	metrics         MetricsRecorder
	logger          *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	sellerStateCode string,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		sellerStateCode: sellerStateCode,
		logger:          logger,
	}
}

// SetMetricsRecorder attaches a business metrics recorder. Must be
// called before the service starts handling requests.
func (s *InvoiceService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// Create creates a sales invoice. Stock is decremented per line with
// the repository's conditional decrement; a failed line rolls back the
// stock taken by the lines before it.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewValidationError("Customer " + customer.Code + " is not active")
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	sequence, err := s.invoiceRepo.NextSequence(ctx, tenantID, invoiceDate.Year())
	if err != nil {
		return nil, err
	}
	invoiceNumber := billing.FormatInvoiceNumber(invoiceDate.Year(), sequence)

	placeOfSupply := req.PlaceOfSupply
	if placeOfSupply == "" {
		placeOfSupply = customer.StateCode
	}

	invoice, err := billing.NewInvoice(tenantID, invoiceNumber, invoiceDate, customer.ID, customer.Name, customer.GSTIN, s.sellerStateCode, placeOfSupply)
	if err != nil {
		return nil, err
	}

	decremented := make([]CreateInvoiceItemRequest, 0, len(req.Items))
	rollback := func() {
		for _, line := range decremented {
			if err := s.productRepo.IncrementStock(ctx, tenantID, line.ProductID, line.Quantity); err != nil {
				s.logger.Error("failed to restore stock after invoice rollback",
					zap.String("tenant_id", tenantID.String()),
					zap.String("product_id", line.ProductID.String()),
					zap.Int("quantity", line.Quantity),
					zap.Error(err))
			}
		}
	}

	for _, line := range req.Items {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, line.ProductID)
		if err != nil {
			rollback()
			return nil, err
		}

		unitPrice := product.SellingPrice
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		if unitPrice.IsZero() {
			rollback()
			return nil, shared.NewValidationError("Product " + product.SKU + " has no selling price; pass a unit price")
		}

		if err := s.productRepo.DecrementStockIfAvailable(ctx, tenantID, product.ID, line.Quantity); err != nil {
			rollback()
			return nil, err
		}
		decremented = append(decremented, line)

		if err := invoice.AddItem(product.ID, product.Name, product.HSNCode, product.Karat.String(), line.Quantity, unitPrice, product.GSTRate); err != nil {
			rollback()
			return nil, err
		}
		last := &invoice.Items[len(invoice.Items)-1]
		if err := last.SetWeight(product.GrossWeightGrams.Mul(decimal.NewFromInt(int64(line.Quantity)))); err != nil {
			rollback()
			return nil, err
		}
	}

	if req.PaymentMethod != "" {
		if err := invoice.SetPaymentMethod(billing.PaymentMethod(req.PaymentMethod)); err != nil {
			rollback()
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := invoice.SetNotes(req.Notes); err != nil {
			rollback()
			return nil, err
		}
	}
	if req.Finalize {
		if err := invoice.Finalize(); err != nil {
			rollback()
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		rollback()
		return nil, err
	}

	if req.Finalize && s.metrics != nil {
		s.metrics.RecordInvoiceWithTax(ctx, tenantID, string(invoice.SupplyType), invoice.TotalGST)
	}

	s.logger.Info("created invoice",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("supply_type", string(invoice.SupplyType)),
		zap.String("grand_total", invoice.GrandTotal.StringFixed(2)))

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, tenantID, invoiceNumber)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "invoice_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for idx := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[idx]))
	}
	return responses, total, nil
}

// Finalize locks a draft invoice
func (s *InvoiceService) Finalize(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Finalize(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordInvoiceWithTax(ctx, tenantID, string(invoice.SupplyType), invoice.TotalGST)
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkPaid marks a finalized invoice as paid
func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID, method string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if method != "" {
		if err := invoice.SetPaymentMethod(billing.PaymentMethod(method)); err != nil {
			return nil, err
		}
	}
	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Cancel cancels an invoice and returns the sold stock to the shelf
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Cancel(req.Reason); err != nil {
		return nil, err
	}
	for idx := range invoice.Items {
		item := &invoice.Items[idx]
		if err := s.productRepo.IncrementStock(ctx, tenantID, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("failed to restore stock on invoice cancellation",
				zap.String("tenant_id", tenantID.String()),
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
		}
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("cancelled invoice",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("reason", req.Reason))

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// SalesSummary aggregates finalized and paid invoices over a date range
func (s *InvoiceService) SalesSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*SalesSummaryResponse, error) {
	if to.Before(from) {
		return nil, shared.NewValidationError("End of range cannot be before start")
	}
	invoices, err := s.invoiceRepo.FindByDateRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummaryResponse{From: from, To: to}
	for idx := range invoices {
		invoice := &invoices[idx]
		if invoice.Status != billing.InvoiceStatusFinalized && invoice.Status != billing.InvoiceStatusPaid {
			continue
		}
		summary.InvoiceCount++
		summary.TaxableTotal = summary.TaxableTotal.Add(invoice.TaxableTotal)
		summary.CGSTTotal = summary.CGSTTotal.Add(invoice.CGSTTotal)
		summary.SGSTTotal = summary.SGSTTotal.Add(invoice.SGSTTotal)
		summary.IGSTTotal = summary.IGSTTotal.Add(invoice.IGSTTotal)
		summary.GrandTotal = summary.GrandTotal.Add(invoice.GrandTotal)
	}
	summary.TaxableTotal = summary.TaxableTotal.Round(2)
	summary.CGSTTotal = summary.CGSTTotal.Round(2)
	summary.SGSTTotal = summary.SGSTTotal.Round(2)
	summary.IGSTTotal = summary.IGSTTotal.Round(2)
	summary.GrandTotal = summary.GrandTotal.Round(2)
	return summary, nil
}
