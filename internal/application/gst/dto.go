package gst

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportStatementResponse reports the outcome of a portal statement import
type ImportStatementResponse struct {
	Period      string    `json:"period"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	Replaced    bool      `json:"replaced"`
	ArchiveKey  string    `json:"archive_key,omitempty"`
	ImportedAt  time.Time `json:"imported_at"`
}

// ITCSummaryResponse totals the input tax credit the portal made
// available for a period, per the imported GSTR-2B statement
type ITCSummaryResponse struct {
	Period           string          `json:"period"`
	InvoiceCount     int             `json:"invoice_count"`
	AvailableCGST    decimal.Decimal `json:"available_cgst"`
	AvailableSGST    decimal.Decimal `json:"available_sgst"`
	AvailableIGST    decimal.Decimal `json:"available_igst"`
	AvailableTotal   decimal.Decimal `json:"available_total"`
	UnavailableCount int             `json:"unavailable_count"`
	UnavailableTotal decimal.Decimal `json:"unavailable_total"`
}

// StatementListFilter selects one page of imported portal records
type StatementListFilter struct {
	Period   string `form:"period" binding:"required,len=6"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StatementRecordResponse is one imported supplier invoice as the
// portal reported it. ITCAvailable is only present for GSTR-2B rows.
type StatementRecordResponse struct {
	SupplierGSTIN string          `json:"supplier_gstin"`
	SupplierName  string          `json:"supplier_name"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty"`
	InvoiceValue  decimal.Decimal `json:"invoice_value"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	ITCAvailable  *bool           `json:"itc_available,omitempty"`
}
