package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"sku":                true,
	"name":               true,
	"karat":              true,
	"hsn_code":           true,
	"selling_price":      true,
	"stock_quantity":     true,
	"gross_weight_grams": true,
	"status":             true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"type":       true,
	"status":     true,
	"state_code": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"name":        true,
	"type":        true,
	"status":      true,
	"balance":     true,
	"credit_days": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"customer_name":  true,
	"status":         true,
	"grand_total":    true,
	"total_gst":      true,
	"finalized_at":   true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":                      true,
	"created_at":              true,
	"updated_at":              true,
	"po_number":               true,
	"order_date":              true,
	"supplier_name":           true,
	"supplier_invoice_number": true,
	"supplier_invoice_date":   true,
	"status":                  true,
	"total_amount":            true,
}

// StatementSortFields contains allowed sort fields for imported GSTR records
var StatementSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"supplier_gstin": true,
	"supplier_name":  true,
	"invoice_number": true,
	"invoice_date":   true,
	"invoice_value":  true,
	"taxable_value":  true,
}
