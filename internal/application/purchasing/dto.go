package purchasing

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderItemRequest is a line on a purchase order request.
// Unit costs are before GST.
type CreatePurchaseOrderItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=200"`
	HSNCode     string          `json:"hsn_code"`
	Karat       string          `json:"karat"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                        `json:"supplier_id" binding:"required"`
	OrderDate  *time.Time                       `json:"order_date"`
	Notes      string                           `json:"notes"`
	Items      []CreatePurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RecordSupplierInvoiceRequest records the supplier's bill against a
// purchase order. The GST split must match what the supplier charged;
// these amounts feed the ITC claim and the 2A/2B reconciliation.
type RecordSupplierInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,min=1,max=50"`
	InvoiceDate   time.Time       `json:"invoice_date" binding:"required"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
}

// CancelPurchaseOrderRequest represents a request to cancel a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderItemResponse represents a purchase order line in API responses
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	Description      string          `json:"description"`
	HSNCode          string          `json:"hsn_code,omitempty"`
	Karat            string          `json:"karat,omitempty"`
	GrossWeightGrams decimal.Decimal `json:"gross_weight_grams"`
	Quantity         int             `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                    uuid.UUID                   `json:"id"`
	PONumber              string                      `json:"po_number"`
	SupplierID            uuid.UUID                   `json:"supplier_id"`
	SupplierName          string                      `json:"supplier_name"`
	SupplierGSTIN         string                      `json:"supplier_gstin"`
	SupplierInvoiceNumber string                      `json:"supplier_invoice_number,omitempty"`
	SupplierInvoiceDate   *time.Time                  `json:"supplier_invoice_date,omitempty"`
	Items                 []PurchaseOrderItemResponse `json:"items"`
	TaxableValue          decimal.Decimal             `json:"taxable_value"`
	CGSTAmount            decimal.Decimal             `json:"cgst_amount"`
	SGSTAmount            decimal.Decimal             `json:"sgst_amount"`
	IGSTAmount            decimal.Decimal             `json:"igst_amount"`
	TotalGST              decimal.Decimal             `json:"total_gst"`
	TotalAmount           decimal.Decimal             `json:"total_amount"`
	ITCEligible           bool                        `json:"itc_eligible"`
	Status                string                      `json:"status"`
	OrderDate             time.Time                   `json:"order_date"`
	Notes                 string                      `json:"notes,omitempty"`
}

// ToPurchaseOrderResponse converts a domain purchase order to its response DTO
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(order.Items))
	for idx := range order.Items {
		item := &order.Items[idx]
		items = append(items, PurchaseOrderItemResponse{
			ID:               item.ID,
			Description:      item.Description,
			HSNCode:          item.HSNCode,
			Karat:            item.Karat,
			GrossWeightGrams: item.GrossWeightGrams,
			Quantity:         item.Quantity,
			UnitCost:         item.UnitCost,
			LineTotal:        item.LineTotal.Round(2),
		})
	}
	return PurchaseOrderResponse{
		ID:                    order.ID,
		PONumber:              order.PONumber,
		SupplierID:            order.SupplierID,
		SupplierName:          order.SupplierName,
		SupplierGSTIN:         order.SupplierGSTIN.String(),
		SupplierInvoiceNumber: order.SupplierInvoiceNumber,
		SupplierInvoiceDate:   order.SupplierInvoiceDate,
		Items:                 items,
		TaxableValue:          order.TaxableValue.Round(2),
		CGSTAmount:            order.CGSTAmount.Round(2),
		SGSTAmount:            order.SGSTAmount.Round(2),
		IGSTAmount:            order.IGSTAmount.Round(2),
		TotalGST:              order.TotalGST().Round(2),
		TotalAmount:           order.TotalAmount.Round(2),
		ITCEligible:           order.ITCEligible,
		Status:                order.Status.String(),
		OrderDate:             order.OrderDate,
		Notes:                 order.Notes,
	}
}

// PurchaseOrderListFilter represents filter options for purchase order lists
type PurchaseOrderListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING PARTIALLY_RECEIVED RECEIVED CANCELLED"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
