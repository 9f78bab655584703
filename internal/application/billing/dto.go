package billing

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceItemRequest is a line on an invoice creation request.
// UnitPrice overrides the catalog selling price when set; both are
// GST-inclusive.
type CreateInvoiceItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest represents a request to create a sales invoice
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID                  `json:"customer_id" binding:"required"`
	InvoiceDate   *time.Time                 `json:"invoice_date"`
	PlaceOfSupply string                     `json:"place_of_supply"`
	PaymentMethod string                     `json:"payment_method" binding:"omitempty,oneof=cash card upi bank_transfer"`
	Notes         string                     `json:"notes"`
	Finalize      bool                       `json:"finalize"`
	Items         []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CancelInvoiceRequest represents a request to cancel an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	HSNCode          string          `json:"hsn_code"`
	Karat            string          `json:"karat"`
	GrossWeightGrams decimal.Decimal `json:"gross_weight_grams"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	GSTRate          decimal.Decimal `json:"gst_rate"`
	TaxableValue     decimal.Decimal `json:"taxable_value"`
	CGSTAmount       decimal.Decimal `json:"cgst_amount"`
	SGSTAmount       decimal.Decimal `json:"sgst_amount"`
	IGSTAmount       decimal.Decimal `json:"igst_amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	CustomerGSTIN string                `json:"customer_gstin,omitempty"`
	PlaceOfSupply string                `json:"place_of_supply"`
	SupplyType    string                `json:"supply_type"`
	B2B           bool                  `json:"b2b"`
	Items         []InvoiceItemResponse `json:"items"`
	TaxableTotal  decimal.Decimal       `json:"taxable_total"`
	CGSTTotal     decimal.Decimal       `json:"cgst_total"`
	SGSTTotal     decimal.Decimal       `json:"sgst_total"`
	IGSTTotal     decimal.Decimal       `json:"igst_total"`
	TotalGST      decimal.Decimal       `json:"total_gst"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
}

// ToInvoiceResponse converts a domain invoice to its response DTO.
// Monetary fields come out rounded to two places for display.
func ToInvoiceResponse(invoice *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(invoice.Items))
	for idx := range invoice.Items {
		item := &invoice.Items[idx]
		items = append(items, InvoiceItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			HSNCode:          item.HSNCode,
			Karat:            item.Karat,
			GrossWeightGrams: item.GrossWeightGrams,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			LineTotal:        item.LineTotal.Round(2),
			GSTRate:          item.GSTRate,
			TaxableValue:     item.TaxableValue.Round(2),
			CGSTAmount:       item.CGSTAmount.Round(2),
			SGSTAmount:       item.SGSTAmount.Round(2),
			IGSTAmount:       item.IGSTAmount.Round(2),
		})
	}
	return InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceDate:   invoice.InvoiceDate,
		CustomerID:    invoice.CustomerID,
		CustomerName:  invoice.CustomerName,
		CustomerGSTIN: invoice.CustomerGSTIN.String(),
		PlaceOfSupply: invoice.PlaceOfSupply,
		SupplyType:    string(invoice.SupplyType),
		B2B:           invoice.IsB2B(),
		Items:         items,
		TaxableTotal:  invoice.TaxableTotal.Round(2),
		CGSTTotal:     invoice.CGSTTotal.Round(2),
		SGSTTotal:     invoice.SGSTTotal.Round(2),
		IGSTTotal:     invoice.IGSTTotal.Round(2),
		TotalGST:      invoice.TotalGST.Round(2),
		GrandTotal:    invoice.GrandTotal.Round(2),
		PaymentMethod: string(invoice.PaymentMethod),
		Status:        invoice.Status.String(),
		Notes:         invoice.Notes,
	}
}

// InvoiceListFilter represents filter options for invoice lists
type InvoiceListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT FINALIZED PAID CANCELLED"`
	CustomerID *uuid.UUID `form:"customer_id"`
	From       *time.Time `form:"from"`
	To         *time.Time `form:"to"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesSummaryResponse aggregates finalized and paid invoices over a
// date range for the dashboard
type SalesSummaryResponse struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	InvoiceCount int             `json:"invoice_count"`
	TaxableTotal decimal.Decimal `json:"taxable_total"`
	CGSTTotal    decimal.Decimal `json:"cgst_total"`
	SGSTTotal    decimal.Decimal `json:"sgst_total"`
	IGSTTotal    decimal.Decimal `json:"igst_total"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}
