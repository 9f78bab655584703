package gst

import (
	"testing"
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGSTR3BBuilder_Build(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	invoices := []billing.Invoice{
		finalizedInvoice(t, "INV-2024-00001", aug, "", "27", 10300),  // 150 CGST + 150 SGST
		finalizedInvoice(t, "INV-2024-00002", aug, "", "27", 20600),  // 300 CGST + 300 SGST
	}
	purchases := []purchasing.PurchaseOrder{
		recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/117", aug, 10000, 150, 150, 0),
	}

	builder, err := NewGSTR3BBuilder(NetTaxClampToZero)
	require.NoError(t, err)
	summary := builder.Build(period, invoices, purchases)

	assert.Equal(t, "082024", summary.Period)
	assert.Equal(t, "30000.00", summary.OutwardTaxableValue.StringFixed(2))
	assert.Equal(t, "450.00", summary.OutwardTax.CGST.StringFixed(2))
	assert.Equal(t, "450.00", summary.OutwardTax.SGST.StringFixed(2))
	assert.Equal(t, "150.00", summary.ITC.CGST.StringFixed(2))
	assert.Equal(t, "300.00", summary.NetPayable.CGST.StringFixed(2))
	assert.Equal(t, "300.00", summary.NetPayable.SGST.StringFixed(2))
	assert.Equal(t, "600.00", summary.NetPayableTotal.StringFixed(2))
}

func TestGSTR3BBuilder_NetTaxPolicy(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	// A heavy stock purchase month: ITC far exceeds outward tax.
	invoices := []billing.Invoice{
		finalizedInvoice(t, "INV-2024-00001", aug, "", "27", 10300), // 150 + 150
	}
	purchases := []purchasing.PurchaseOrder{
		recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/117", aug, 590000, 8850, 8850, 0),
	}

	t.Run("clamp to zero", func(t *testing.T) {
		builder, err := NewGSTR3BBuilder(NetTaxClampToZero)
		require.NoError(t, err)
		summary := builder.Build(period, invoices, purchases)
		assert.True(t, summary.NetPayable.CGST.IsZero())
		assert.True(t, summary.NetPayableTotal.IsZero())
	})

	t.Run("allow negative", func(t *testing.T) {
		builder, err := NewGSTR3BBuilder(NetTaxAllowNegative)
		require.NoError(t, err)
		summary := builder.Build(period, invoices, purchases)
		assert.Equal(t, "-8700.00", summary.NetPayable.CGST.StringFixed(2))
		assert.Equal(t, "-17400.00", summary.NetPayableTotal.StringFixed(2))
	})

	t.Run("empty policy defaults to clamp", func(t *testing.T) {
		builder, err := NewGSTR3BBuilder("")
		require.NoError(t, err)
		assert.Equal(t, NetTaxClampToZero, builder.Policy)
	})

	t.Run("unknown policy rejected", func(t *testing.T) {
		_, err := NewGSTR3BBuilder(NetTaxPolicy("refund_now"))
		require.Error(t, err)
	})
}

func TestGSTR3BBuilder_Exclusions(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	ineligible := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/118", aug, 10000, 150, 150, 0)
	ineligible.SetITCEligible(false)

	cancelled := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/119", aug, 10000, 150, 150, 0)
	require.NoError(t, cancelled.Cancel("order withdrawn"))

	outOfPeriod := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/120", aug.AddDate(0, 1, 0), 10000, 150, 150, 0)

	builder, err := NewGSTR3BBuilder(NetTaxClampToZero)
	require.NoError(t, err)
	summary := builder.Build(period, nil, []purchasing.PurchaseOrder{ineligible, cancelled, outOfPeriod})
	assert.True(t, summary.ITC.Total().IsZero())
}
