package gst

import (
	"sort"
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// GSTR1InvoiceRow is one outward invoice on the GSTR-1 return
type GSTR1InvoiceRow struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	InvoiceValue  decimal.Decimal `json:"invoice_value"`
	PlaceOfSupply string          `json:"place_of_supply"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
}

// GSTR1B2BEntry groups a registered customer's invoices for the period
type GSTR1B2BEntry struct {
	CustomerGSTIN partner.GSTIN     `json:"customer_gstin"`
	CustomerName  string            `json:"customer_name"`
	Invoices      []GSTR1InvoiceRow `json:"invoices"`
	TaxableValue  decimal.Decimal   `json:"taxable_value"`
	TotalTax      decimal.Decimal   `json:"total_tax"`
}

// GSTR1B2CRow aggregates unregistered sales by place of supply
type GSTR1B2CRow struct {
	PlaceOfSupply string          `json:"place_of_supply"`
	InvoiceCount  int             `json:"invoice_count"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
}

// GSTR1Summary is the outward supply return for a filing period.
// B2B lists invoice detail per registered customer; B2C aggregates
// unregistered sales by place of supply.
type GSTR1Summary struct {
	Period            string               `json:"period"`
	B2B               []GSTR1B2BEntry      `json:"b2b"`
	B2C               []GSTR1B2CRow        `json:"b2c"`
	TotalInvoices     int                  `json:"total_invoices"`
	TotalTaxableValue decimal.Decimal      `json:"total_taxable_value"`
	TotalCGST         decimal.Decimal      `json:"total_cgst"`
	TotalSGST         decimal.Decimal      `json:"total_sgst"`
	TotalIGST         decimal.Decimal      `json:"total_igst"`
	GrandTotal        decimal.Decimal      `json:"grand_total"`
}

// BuildGSTR1 aggregates the period's invoices into a GSTR-1 summary.
// Draft and cancelled invoices never reach the return; every amount
// in the summary is rounded to paise.
func BuildGSTR1(period FilingPeriod, invoices []billing.Invoice) *GSTR1Summary {
	summary := &GSTR1Summary{
		Period:            period.String(),
		B2B:               make([]GSTR1B2BEntry, 0),
		B2C:               make([]GSTR1B2CRow, 0),
		TotalTaxableValue: decimal.Zero,
		TotalCGST:         decimal.Zero,
		TotalSGST:         decimal.Zero,
		TotalIGST:         decimal.Zero,
		GrandTotal:        decimal.Zero,
	}

	b2bByGSTIN := make(map[partner.GSTIN]*GSTR1B2BEntry)
	b2cByState := make(map[string]*GSTR1B2CRow)

	for idx := range invoices {
		inv := &invoices[idx]
		if !reportable(inv) || !period.Contains(inv.InvoiceDate) {
			continue
		}

		breakdown := inv.Breakdown().Rounded()
		summary.TotalInvoices++
		summary.TotalTaxableValue = summary.TotalTaxableValue.Add(breakdown.TaxableValue)
		summary.TotalCGST = summary.TotalCGST.Add(breakdown.CGST)
		summary.TotalSGST = summary.TotalSGST.Add(breakdown.SGST)
		summary.TotalIGST = summary.TotalIGST.Add(breakdown.IGST)
		summary.GrandTotal = summary.GrandTotal.Add(inv.GrandTotal.Round(2))

		if inv.IsB2B() {
			entry, ok := b2bByGSTIN[inv.CustomerGSTIN]
			if !ok {
				entry = &GSTR1B2BEntry{
					CustomerGSTIN: inv.CustomerGSTIN,
					CustomerName:  inv.CustomerName,
					Invoices:      make([]GSTR1InvoiceRow, 0),
					TaxableValue:  decimal.Zero,
					TotalTax:      decimal.Zero,
				}
				b2bByGSTIN[inv.CustomerGSTIN] = entry
			}
			entry.Invoices = append(entry.Invoices, GSTR1InvoiceRow{
				InvoiceNumber: inv.InvoiceNumber,
				InvoiceDate:   inv.InvoiceDate,
				InvoiceValue:  inv.GrandTotal.Round(2),
				PlaceOfSupply: inv.PlaceOfSupply,
				TaxableValue:  breakdown.TaxableValue,
				CGST:          breakdown.CGST,
				SGST:          breakdown.SGST,
				IGST:          breakdown.IGST,
			})
			entry.TaxableValue = entry.TaxableValue.Add(breakdown.TaxableValue)
			entry.TotalTax = entry.TotalTax.Add(breakdown.TotalGST)
		} else {
			row, ok := b2cByState[inv.PlaceOfSupply]
			if !ok {
				row = &GSTR1B2CRow{
					PlaceOfSupply: inv.PlaceOfSupply,
					TaxableValue:  decimal.Zero,
					CGST:          decimal.Zero,
					SGST:          decimal.Zero,
					IGST:          decimal.Zero,
				}
				b2cByState[inv.PlaceOfSupply] = row
			}
			row.InvoiceCount++
			row.TaxableValue = row.TaxableValue.Add(breakdown.TaxableValue)
			row.CGST = row.CGST.Add(breakdown.CGST)
			row.SGST = row.SGST.Add(breakdown.SGST)
			row.IGST = row.IGST.Add(breakdown.IGST)
		}
	}

	for _, entry := range b2bByGSTIN {
		summary.B2B = append(summary.B2B, *entry)
	}
	sort.Slice(summary.B2B, func(i, j int) bool {
		return summary.B2B[i].CustomerGSTIN < summary.B2B[j].CustomerGSTIN
	})

	for _, row := range b2cByState {
		summary.B2C = append(summary.B2C, *row)
	}
	sort.Slice(summary.B2C, func(i, j int) bool {
		return summary.B2C[i].PlaceOfSupply < summary.B2C[j].PlaceOfSupply
	})

	return summary
}

// reportable excludes invoices that never became tax documents
func reportable(inv *billing.Invoice) bool {
	return inv.Status == billing.InvoiceStatusFinalized || inv.Status == billing.InvoiceStatusPaid
}
