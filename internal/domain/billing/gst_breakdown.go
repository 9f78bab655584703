package billing

import (
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplyType classifies a sale for GST purposes.
type SupplyType string

const (
	SupplyIntraState SupplyType = "intra_state" // CGST + SGST
	SupplyInterState SupplyType = "inter_state" // IGST
)

// DetermineSupplyType compares the seller's state with the place of
// supply. Same state means CGST+SGST, different state means IGST.
func DetermineSupplyType(sellerStateCode, placeOfSupply string) SupplyType {
	if sellerStateCode == placeOfSupply {
		return SupplyIntraState
	}
	return SupplyInterState
}

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)
var two = decimal.NewFromInt(2)

// GSTBreakdown is the tax decomposition of a GST-inclusive amount.
// Exactly one of CGST+SGST or IGST is populated, never both.
type GSTBreakdown struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	TotalGST     decimal.Decimal `json:"total_gst"`
}

// SplitInclusive backs the GST out of a tax-inclusive amount and
// splits it by supply type.
//
//	taxable = gross / (1 + rate/100)
//	gst     = gross - taxable
//
// Intermediate precision is preserved; call Rounded for display.
func SplitInclusive(grossAmount, ratePercent decimal.Decimal, supply SupplyType) (GSTBreakdown, error) {
	if grossAmount.IsNegative() {
		return GSTBreakdown{}, shared.NewValidationError("Amount cannot be negative")
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(hundred) {
		return GSTBreakdown{}, shared.NewValidationError("GST rate must be between 0 and 100")
	}

	taxable := grossAmount.Div(one.Add(ratePercent.Div(hundred)))
	gst := grossAmount.Sub(taxable)

	breakdown := GSTBreakdown{TaxableValue: taxable, TotalGST: gst}
	switch supply {
	case SupplyIntraState:
		// The subtraction keeps CGST+SGST exactly equal to the total
		// even when the halving loses a digit at division precision.
		breakdown.CGST = gst.Div(two)
		breakdown.SGST = gst.Sub(breakdown.CGST)
	case SupplyInterState:
		breakdown.IGST = gst
	default:
		return GSTBreakdown{}, shared.NewValidationError("Unknown supply type")
	}
	return breakdown, nil
}

// Add accumulates another breakdown into this one
func (b GSTBreakdown) Add(other GSTBreakdown) GSTBreakdown {
	return GSTBreakdown{
		TaxableValue: b.TaxableValue.Add(other.TaxableValue),
		CGST:         b.CGST.Add(other.CGST),
		SGST:         b.SGST.Add(other.SGST),
		IGST:         b.IGST.Add(other.IGST),
		TotalGST:     b.TotalGST.Add(other.TotalGST),
	}
}

// Rounded returns the breakdown with every amount rounded to paise
func (b GSTBreakdown) Rounded() GSTBreakdown {
	return GSTBreakdown{
		TaxableValue: b.TaxableValue.Round(2),
		CGST:         b.CGST.Round(2),
		SGST:         b.SGST.Round(2),
		IGST:         b.IGST.Round(2),
		TotalGST:     b.TotalGST.Round(2),
	}
}

// GrossValue returns taxable value plus total GST
func (b GSTBreakdown) GrossValue() decimal.Decimal {
	return b.TaxableValue.Add(b.TotalGST)
}
