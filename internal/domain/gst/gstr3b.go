package gst

import (
	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// NetTaxPolicy decides how GSTR-3B reports a period where input tax
// credit exceeds the outward liability.
type NetTaxPolicy string

const (
	// NetTaxClampToZero reports zero payable; the excess credit stays
	// in the ledger to be carried forward.
	NetTaxClampToZero NetTaxPolicy = "clamp_to_zero"
	// NetTaxAllowNegative reports the raw difference, leaving the
	// carry-forward arithmetic to the reader.
	NetTaxAllowNegative NetTaxPolicy = "allow_negative"
)

// IsValid checks if the policy is a known NetTaxPolicy
func (p NetTaxPolicy) IsValid() bool {
	return p == NetTaxClampToZero || p == NetTaxAllowNegative
}

// TaxHeads holds amounts under the three GST heads
type TaxHeads struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Total sums the three heads
func (h TaxHeads) Total() decimal.Decimal {
	return h.CGST.Add(h.SGST).Add(h.IGST)
}

// GSTR3BSummary is the monthly self-declared summary return:
// outward liability, eligible input tax credit, and net tax payable
// computed head by head.
type GSTR3BSummary struct {
	Period              string          `json:"period"`
	OutwardTaxableValue decimal.Decimal `json:"outward_taxable_value"`
	OutwardTax          TaxHeads        `json:"outward_tax"`
	ITCTaxableValue     decimal.Decimal `json:"itc_taxable_value"`
	ITC                 TaxHeads        `json:"itc"`
	NetPayable          TaxHeads        `json:"net_payable"`
	NetPayableTotal     decimal.Decimal `json:"net_payable_total"`
	Policy              NetTaxPolicy    `json:"policy"`
}

// GSTR3BBuilder computes GSTR-3B summaries under a configured policy
type GSTR3BBuilder struct {
	Policy NetTaxPolicy
}

// NewGSTR3BBuilder returns a builder, defaulting to clamp-to-zero
func NewGSTR3BBuilder(policy NetTaxPolicy) (*GSTR3BBuilder, error) {
	if policy == "" {
		policy = NetTaxClampToZero
	}
	if !policy.IsValid() {
		return nil, shared.NewValidationError("Unknown net tax policy: " + string(policy))
	}
	return &GSTR3BBuilder{Policy: policy}, nil
}

// Build aggregates outward tax from the period's invoices and input
// tax credit from its ITC-eligible purchases. Purchases fall into the
// period by supplier invoice date, or order date when the supplier
// bill is not yet recorded.
func (b *GSTR3BBuilder) Build(period FilingPeriod, invoices []billing.Invoice, purchases []purchasing.PurchaseOrder) *GSTR3BSummary {
	summary := &GSTR3BSummary{
		Period:              period.String(),
		OutwardTaxableValue: decimal.Zero,
		ITCTaxableValue:     decimal.Zero,
		Policy:              b.Policy,
	}

	for idx := range invoices {
		inv := &invoices[idx]
		if !reportable(inv) || !period.Contains(inv.InvoiceDate) {
			continue
		}
		breakdown := inv.Breakdown().Rounded()
		summary.OutwardTaxableValue = summary.OutwardTaxableValue.Add(breakdown.TaxableValue)
		summary.OutwardTax.CGST = summary.OutwardTax.CGST.Add(breakdown.CGST)
		summary.OutwardTax.SGST = summary.OutwardTax.SGST.Add(breakdown.SGST)
		summary.OutwardTax.IGST = summary.OutwardTax.IGST.Add(breakdown.IGST)
	}

	for idx := range purchases {
		po := &purchases[idx]
		if po.Status == purchasing.PurchaseOrderStatusCancelled || !po.ITCEligible {
			continue
		}
		effectiveDate := po.OrderDate
		if po.SupplierInvoiceDate != nil {
			effectiveDate = *po.SupplierInvoiceDate
		}
		if !period.Contains(effectiveDate) {
			continue
		}
		summary.ITCTaxableValue = summary.ITCTaxableValue.Add(po.TaxableValue.Round(2))
		summary.ITC.CGST = summary.ITC.CGST.Add(po.CGSTAmount.Round(2))
		summary.ITC.SGST = summary.ITC.SGST.Add(po.SGSTAmount.Round(2))
		summary.ITC.IGST = summary.ITC.IGST.Add(po.IGSTAmount.Round(2))
	}

	summary.NetPayable = TaxHeads{
		CGST: b.net(summary.OutwardTax.CGST, summary.ITC.CGST),
		SGST: b.net(summary.OutwardTax.SGST, summary.ITC.SGST),
		IGST: b.net(summary.OutwardTax.IGST, summary.ITC.IGST),
	}
	summary.NetPayableTotal = summary.NetPayable.Total()
	return summary
}

func (b *GSTR3BBuilder) net(outward, itc decimal.Decimal) decimal.Decimal {
	net := outward.Sub(itc)
	if b.Policy == NetTaxClampToZero && net.IsNegative() {
		return decimal.Zero
	}
	return net
}
