package gst

import (
	"sort"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// HSNRow is one line of the HSN-wise outward supply summary
type HSNRow struct {
	HSNCode      string          `json:"hsn_code"`
	Quantity     int             `json:"quantity"`
	GrossWeight  decimal.Decimal `json:"gross_weight_grams"`
	TotalValue   decimal.Decimal `json:"total_value"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
}

// HSNSummary is the HSN-wise breakdown filed alongside GSTR-1
type HSNSummary struct {
	Period string   `json:"period"`
	Rows   []HSNRow `json:"rows"`
}

// BuildHSNSummary groups the period's invoice lines by HSN code.
// Line-level tax amounts are summed directly, so the per-code split
// stays consistent with the invoices it came from.
func BuildHSNSummary(period FilingPeriod, invoices []billing.Invoice) *HSNSummary {
	byCode := make(map[string]*HSNRow)

	for idx := range invoices {
		inv := &invoices[idx]
		if !reportable(inv) || !period.Contains(inv.InvoiceDate) {
			continue
		}
		for itemIdx := range inv.Items {
			item := &inv.Items[itemIdx]
			code := item.HSNCode
			if code == "" {
				code = "7113"
			}
			row, ok := byCode[code]
			if !ok {
				row = &HSNRow{
					HSNCode:      code,
					GrossWeight:  decimal.Zero,
					TotalValue:   decimal.Zero,
					TaxableValue: decimal.Zero,
					CGST:         decimal.Zero,
					SGST:         decimal.Zero,
					IGST:         decimal.Zero,
				}
				byCode[code] = row
			}
			row.Quantity += item.Quantity
			row.GrossWeight = row.GrossWeight.Add(item.GrossWeightGrams)
			row.TotalValue = row.TotalValue.Add(item.LineTotal.Round(2))
			row.TaxableValue = row.TaxableValue.Add(item.TaxableValue.Round(2))
			row.CGST = row.CGST.Add(item.CGSTAmount.Round(2))
			row.SGST = row.SGST.Add(item.SGSTAmount.Round(2))
			row.IGST = row.IGST.Add(item.IGSTAmount.Round(2))
		}
	}

	summary := &HSNSummary{Period: period.String(), Rows: make([]HSNRow, 0, len(byCode))}
	for _, row := range byCode {
		summary.Rows = append(summary.Rows, *row)
	}
	sort.Slice(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].HSNCode < summary.Rows[j].HSNCode
	})
	return summary
}
