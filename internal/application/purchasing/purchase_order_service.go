package purchasing

import (
	"context"
	"time"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService handles inward supply operations
type PurchaseOrderService struct {
	orderRepo    purchasing.PurchaseOrderRepository
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchasing.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create creates a purchase order against an active supplier
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier.IsBlocked() {
		return nil, shared.NewValidationError("Supplier " + supplier.Code + " is blocked")
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	sequence, err := s.orderRepo.NextSequence(ctx, tenantID, orderDate.Year())
	if err != nil {
		return nil, err
	}
	poNumber := purchasing.FormatPONumber(orderDate.Year(), sequence)

	order, err := purchasing.NewPurchaseOrder(tenantID, poNumber, supplier.ID, supplier.Name, supplier.GSTIN, orderDate)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Items {
		if err := order.AddItem(line.Description, line.HSNCode, line.Karat, line.Quantity, line.UnitCost); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("created purchase order",
		zap.String("tenant_id", tenantID.String()),
		zap.String("po_number", order.PONumber),
		zap.String("supplier_gstin", order.SupplierGSTIN.String()))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "order_date"
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
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}

	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[idx]))
	}
	return responses, total, nil
}

// RecordSupplierInvoice records the supplier's bill and the GST it
// charged. The bill reference is what GSTR-2A/2B reconciliation
// matches on.
func (s *PurchaseOrderService) RecordSupplierInvoice(ctx context.Context, tenantID, orderID uuid.UUID, req RecordSupplierInvoiceRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.SetSupplierInvoice(req.InvoiceNumber, req.InvoiceDate); err != nil {
		return nil, err
	}
	if err := order.SetTaxAmounts(req.CGSTAmount, req.SGSTAmount, req.IGSTAmount); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("recorded supplier invoice",
		zap.String("tenant_id", tenantID.String()),
		zap.String("po_number", order.PONumber),
		zap.String("supplier_invoice", req.InvoiceNumber),
		zap.String("itc", order.TotalGST().StringFixed(2)))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// SetITCEligible flags whether the GST on the order can be claimed
func (s *PurchaseOrderService) SetITCEligible(ctx context.Context, tenantID, orderID uuid.UUID, eligible bool) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	order.SetITCEligible(eligible)
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// MarkReceived records goods receipt and adds the payable to the
// supplier's balance. Partial receipts only move the status.
func (s *PurchaseOrderService) MarkReceived(ctx context.Context, tenantID, orderID uuid.UUID, partial bool) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if partial {
		if err := order.MarkPartiallyReceived(); err != nil {
			return nil, err
		}
	} else {
		if err := order.MarkReceived(); err != nil {
			return nil, err
		}
		if order.TotalAmount.IsPositive() {
			supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, order.SupplierID)
			if err == nil {
				if err := supplier.AddBalance(order.TotalAmount); err == nil {
					if err := s.supplierRepo.Save(ctx, supplier); err != nil {
						s.logger.Error("failed to update supplier balance on receipt",
							zap.String("po_number", order.PONumber),
							zap.Error(err))
					}
				}
			}
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels a purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("cancelled purchase order",
		zap.String("tenant_id", tenantID.String()),
		zap.String("po_number", order.PONumber),
		zap.String("reason", req.Reason))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}
