package gst

import (
	"testing"
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGSTR1(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := func(day int) time.Time { return time.Date(2024, 8, day, 12, 0, 0, 0, time.UTC) }

	b2bFirst := finalizedInvoice(t, "INV-2024-00001", aug(3), "29AABCU9603R1ZM", "27", 10300)
	b2bSecond := finalizedInvoice(t, "INV-2024-00002", aug(9), "29AABCU9603R1ZM", "27", 20600)
	b2cIntra := finalizedInvoice(t, "INV-2024-00003", aug(14), "", "27", 10300)
	b2cAgain := finalizedInvoice(t, "INV-2024-00004", aug(21), "", "27", 5150)
	outOfPeriod := finalizedInvoice(t, "INV-2024-00005", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), "", "27", 10300)

	cancelled := finalizedInvoice(t, "INV-2024-00006", aug(25), "", "27", 10300)
	require.NoError(t, cancelled.Cancel("billing mistake"))

	summary := BuildGSTR1(period, []billing.Invoice{b2bFirst, b2bSecond, b2cIntra, b2cAgain, outOfPeriod, cancelled})

	assert.Equal(t, "082024", summary.Period)
	assert.Equal(t, 4, summary.TotalInvoices)

	t.Run("B2B grouped per customer GSTIN", func(t *testing.T) {
		require.Len(t, summary.B2B, 1)
		entry := summary.B2B[0]
		assert.Equal(t, "29AABCU9603R1ZM", entry.CustomerGSTIN.String())
		require.Len(t, entry.Invoices, 2)
		// customer is in Karnataka, so the supply is inter-state IGST
		assert.Equal(t, "30000.00", entry.TaxableValue.StringFixed(2))
		assert.Equal(t, "900.00", entry.TotalTax.StringFixed(2))
		assert.Equal(t, "29", entry.Invoices[0].PlaceOfSupply)
		assert.Equal(t, "300.00", entry.Invoices[0].IGST.StringFixed(2))
		assert.True(t, entry.Invoices[0].CGST.IsZero())
	})

	t.Run("B2C aggregated by place of supply", func(t *testing.T) {
		require.Len(t, summary.B2C, 1)
		row := summary.B2C[0]
		assert.Equal(t, "27", row.PlaceOfSupply)
		assert.Equal(t, 2, row.InvoiceCount)
		assert.Equal(t, "15000.00", row.TaxableValue.StringFixed(2))
		assert.Equal(t, "225.00", row.CGST.StringFixed(2))
		assert.Equal(t, "225.00", row.SGST.StringFixed(2))
		assert.True(t, row.IGST.IsZero())
	})

	t.Run("totals cover both sections", func(t *testing.T) {
		assert.Equal(t, "45000.00", summary.TotalTaxableValue.StringFixed(2))
		assert.Equal(t, "225.00", summary.TotalCGST.StringFixed(2))
		assert.Equal(t, "225.00", summary.TotalSGST.StringFixed(2))
		assert.Equal(t, "900.00", summary.TotalIGST.StringFixed(2))
		assert.Equal(t, "46350.00", summary.GrandTotal.StringFixed(2))
	})
}

func TestBuildGSTR1_Empty(t *testing.T) {
	summary := BuildGSTR1(FilingPeriod{Month: 8, Year: 2024}, nil)
	assert.Zero(t, summary.TotalInvoices)
	assert.Empty(t, summary.B2B)
	assert.Empty(t, summary.B2C)
	assert.True(t, summary.GrandTotal.IsZero())
}
