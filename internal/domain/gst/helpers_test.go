package gst

import (
	"testing"
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testTenantID = uuid.New()

// finalizedInvoice builds a single-line finalized invoice at 3% GST.
// Seller state is Maharashtra (27).
func finalizedInvoice(t *testing.T, number string, date time.Time, customerGSTIN, placeOfSupply string, gross int64) billing.Invoice {
	t.Helper()
	var gstin partner.GSTIN
	if customerGSTIN != "" {
		parsed, err := partner.ParseGSTIN(customerGSTIN)
		require.NoError(t, err)
		gstin = parsed
	}
	inv, err := billing.NewInvoice(testTenantID, number, date, uuid.New(), "Test Customer", gstin, "27", placeOfSupply)
	require.NoError(t, err)
	require.NoError(t, inv.AddItem(uuid.New(), "Gold Ring 22K", "7113", "22K", 1, decimal.NewFromInt(gross), decimal.NewFromInt(3)))
	require.NoError(t, inv.Finalize())
	return *inv
}

// recordedPurchase builds a purchase order with the supplier's bill reference set
func recordedPurchase(t *testing.T, supplierGSTIN, invoiceNumber string, invoiceDate time.Time, taxable, cgst, sgst, igst int64) purchasing.PurchaseOrder {
	t.Helper()
	gstin, err := partner.ParseGSTIN(supplierGSTIN)
	require.NoError(t, err)
	po, err := purchasing.NewPurchaseOrder(testTenantID, "PO-2024-"+invoiceNumber, uuid.New(), "Test Supplier", gstin, invoiceDate)
	require.NoError(t, err)
	require.NoError(t, po.AddItem("gold stock", "7108", "22K", 1, decimal.NewFromInt(taxable)))
	require.NoError(t, po.SetTaxAmounts(decimal.NewFromInt(cgst), decimal.NewFromInt(sgst), decimal.NewFromInt(igst)))
	require.NoError(t, po.SetSupplierInvoice(invoiceNumber, invoiceDate))
	return *po
}

// portalEcho builds the portal-side view matching a local purchase exactly
func portalEcho(t *testing.T, po purchasing.PurchaseOrder) PortalInvoice {
	t.Helper()
	date := po.SupplierInvoiceDate
	return PortalInvoice{
		SupplierGSTIN: po.SupplierGSTIN,
		SupplierName:  po.SupplierName,
		InvoiceNumber: po.SupplierInvoiceNumber,
		InvoiceDate:   date,
		InvoiceValue:  po.TotalAmount,
		TaxableValue:  po.TaxableValue,
		TotalTax:      po.TotalGST(),
	}
}
