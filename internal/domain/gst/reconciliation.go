package gst

import (
	"strings"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReconciliationSource names one of the portal statements
type ReconciliationSource string

const (
	Source2A ReconciliationSource = "2A"
	Source2B ReconciliationSource = "2B"
)

// IsValid checks if the source is a known ReconciliationSource
func (s ReconciliationSource) IsValid() bool {
	return s == Source2A || s == Source2B
}

// DiscrepancyType classifies a reconciliation finding
type DiscrepancyType string

const (
	DiscrepancyMissingIn2A    DiscrepancyType = "missing_in_2a"   // local purchase absent from 2A
	DiscrepancyMissingIn2B    DiscrepancyType = "missing_in_2b"   // local purchase absent from 2B
	DiscrepancyMissingLocally DiscrepancyType = "missing_locally" // portal invoice with no local purchase
	DiscrepancyAmountMismatch DiscrepancyType = "amount_mismatch" // present on both sides but amounts differ beyond tolerance
)

// Discrepancy is one finding from the reconciliation run
type Discrepancy struct {
	Type          DiscrepancyType `json:"type"`
	SupplierGSTIN partner.GSTIN   `json:"supplier_gstin"`
	SupplierName  string          `json:"supplier_name"`
	InvoiceNumber string          `json:"invoice_number"`
	LocalValue    decimal.Decimal `json:"local_value"`
	PortalValue   decimal.Decimal `json:"portal_value"`
	Difference    decimal.Decimal `json:"difference"`
	Reason        string          `json:"reason"`
}

// ReconciliationResult compares the purchase register against both
// portal statements for one filing period. VarianceAmount is signed:
// total 2A value minus total purchase value. The ITC split follows
// GSTR-2B, the statutory source of credit eligibility; 2A is
// informational only.
type ReconciliationResult struct {
	Period             string          `json:"period"`
	Total2ARecords     int             `json:"total_gstr2a_records"`
	Total2BRecords     int             `json:"total_gstr2b_records"`
	TotalPurchases     int             `json:"total_purchase_records"`
	MatchedCount       int             `json:"matched_records"`
	UnmatchedCount     int             `json:"unmatched_records"`
	MismatchedCount    int             `json:"mismatched_records"`
	Total2AValue       decimal.Decimal `json:"total_gstr2a_value"`
	TotalPurchaseValue decimal.Decimal `json:"total_purchase_value"`
	VarianceAmount     decimal.Decimal `json:"variance_amount"`
	ITCClaimable       decimal.Decimal `json:"itc_claimable"`
	ITCNotClaimable    decimal.Decimal `json:"itc_not_claimable"`
	Discrepancies      []Discrepancy   `json:"discrepancies"`
}

// DefaultAmountTolerance absorbs paise-level rounding differences
// between the purchase register and portal data.
var DefaultAmountTolerance = decimal.NewFromFloat(0.01)

// ReconciliationService matches the local purchase register against
// the imported GSTR-2A and GSTR-2B records. Matching is keyed on the
// pair (supplier GSTIN, supplier invoice number), case-insensitively,
// with taxable values compared within the tolerance.
type ReconciliationService struct {
	tolerance decimal.Decimal
}

// NewReconciliationService creates a matcher with the default tolerance
func NewReconciliationService() *ReconciliationService {
	return &ReconciliationService{tolerance: DefaultAmountTolerance}
}

// NewReconciliationServiceWithTolerance creates a matcher with a custom tolerance
func NewReconciliationServiceWithTolerance(tolerance decimal.Decimal) (*ReconciliationService, error) {
	if tolerance.IsNegative() {
		return nil, shared.NewValidationError("Tolerance cannot be negative")
	}
	return &ReconciliationService{tolerance: tolerance}, nil
}

// Reconcile compares the period's purchases against both statements.
// A purchase is matched when at least one statement carries the same
// invoice with a taxable value inside the tolerance. Matched purchases
// confirmed by 2B (and not flagged ineligible there) contribute to
// ITCClaimable; everything booked locally but absent from 2B, or
// blocked by 2B, lands in ITCNotClaimable. Running it twice over the
// same inputs yields the same result; the matcher holds no state
// between runs.
func (s *ReconciliationService) Reconcile(period FilingPeriod, gstr2a, gstr2b []PortalInvoice, purchases []purchasing.PurchaseOrder) (*ReconciliationResult, error) {
	if len(purchases) == 0 && len(gstr2a) == 0 && len(gstr2b) == 0 {
		return nil, shared.NewReconciliationInputError("No purchase register entries or portal records for period " + period.String())
	}

	result := &ReconciliationResult{
		Period:             period.String(),
		Total2ARecords:     len(gstr2a),
		Total2BRecords:     len(gstr2b),
		Total2AValue:       decimal.Zero,
		TotalPurchaseValue: decimal.Zero,
		ITCClaimable:       decimal.Zero,
		ITCNotClaimable:    decimal.Zero,
		Discrepancies:      make([]Discrepancy, 0),
	}

	index2a := indexPortal(gstr2a)
	index2b := indexPortal(gstr2b)
	for idx := range gstr2a {
		result.Total2AValue = result.Total2AValue.Add(gstr2a[idx].InvoiceValue.Round(2))
	}

	localKeys := make(map[string]bool)
	for idx := range purchases {
		po := &purchases[idx]
		if po.Status == purchasing.PurchaseOrderStatusCancelled || po.SupplierInvoiceNumber == "" {
			continue
		}
		result.TotalPurchases++
		result.TotalPurchaseValue = result.TotalPurchaseValue.Add(po.TotalAmount.Round(2))

		key := matchKey(po.SupplierGSTIN, po.SupplierInvoiceNumber)
		localKeys[key] = true

		localTaxable := po.TaxableValue.Round(2)
		localTax := po.TotalGST().Round(2)
		rec2a, in2a := index2a[key]
		rec2b, in2b := index2b[key]

		matched2a := in2a && s.withinTolerance(localTaxable, rec2a.TaxableValue.Round(2))
		matched2b := in2b && s.withinTolerance(localTaxable, rec2b.TaxableValue.Round(2))

		switch {
		case matched2a || matched2b:
			result.MatchedCount++
		case in2a || in2b:
			// Present on the portal but the amounts disagree everywhere.
			result.MismatchedCount++
			result.UnmatchedCount++
			portal := rec2b
			if portal == nil {
				portal = rec2a
			}
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Type:          DiscrepancyAmountMismatch,
				SupplierGSTIN: po.SupplierGSTIN,
				SupplierName:  po.SupplierName,
				InvoiceNumber: po.SupplierInvoiceNumber,
				LocalValue:    localTaxable,
				PortalValue:   portal.TaxableValue.Round(2),
				Difference:    localTaxable.Sub(portal.TaxableValue.Round(2)),
				Reason:        "Taxable value differs between purchase register and portal",
			})
		default:
			result.UnmatchedCount++
		}

		// ITC follows 2B alone: credit needs a matched 2B record that
		// the portal has not flagged ineligible.
		if matched2b && rec2b.ITCEligible() {
			result.ITCClaimable = result.ITCClaimable.Add(localTax)
		} else {
			result.ITCNotClaimable = result.ITCNotClaimable.Add(localTax)
		}

		if !in2a && len(gstr2a) > 0 {
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Type:          DiscrepancyMissingIn2A,
				SupplierGSTIN: po.SupplierGSTIN,
				SupplierName:  po.SupplierName,
				InvoiceNumber: po.SupplierInvoiceNumber,
				LocalValue:    po.TotalAmount.Round(2),
				PortalValue:   decimal.Zero,
				Difference:    po.TotalAmount.Round(2),
				Reason:        "Purchase not reported by supplier in GSTR-2A",
			})
		}
		if !in2b {
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Type:          DiscrepancyMissingIn2B,
				SupplierGSTIN: po.SupplierGSTIN,
				SupplierName:  po.SupplierName,
				InvoiceNumber: po.SupplierInvoiceNumber,
				LocalValue:    po.TotalAmount.Round(2),
				PortalValue:   decimal.Zero,
				Difference:    po.TotalAmount.Round(2),
				Reason:        "Purchase not present in GSTR-2B; credit cannot be claimed this period",
			})
		}
	}

	// Portal invoices nobody booked, deduplicated across statements
	// with the 2B copy preferred.
	reported := make(map[string]bool)
	flagUnbooked := func(records []PortalInvoice) {
		for idx := range records {
			record := &records[idx]
			key := matchKey(record.SupplierGSTIN, record.InvoiceNumber)
			if localKeys[key] || reported[key] {
				continue
			}
			reported[key] = true
			result.UnmatchedCount++
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Type:          DiscrepancyMissingLocally,
				SupplierGSTIN: record.SupplierGSTIN,
				SupplierName:  record.SupplierName,
				InvoiceNumber: record.InvoiceNumber,
				LocalValue:    decimal.Zero,
				PortalValue:   record.InvoiceValue.Round(2),
				Difference:    record.InvoiceValue.Round(2).Neg(),
				Reason:        "Supplier reported an invoice with no matching purchase entry",
			})
		}
	}
	flagUnbooked(gstr2b)
	flagUnbooked(gstr2a)

	result.VarianceAmount = result.Total2AValue.Sub(result.TotalPurchaseValue)
	return result, nil
}

func (s *ReconciliationService) withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(s.tolerance)
}

func indexPortal(records []PortalInvoice) map[string]*PortalInvoice {
	index := make(map[string]*PortalInvoice, len(records))
	for idx := range records {
		record := &records[idx]
		key := matchKey(record.SupplierGSTIN, record.InvoiceNumber)
		if _, dup := index[key]; !dup {
			index[key] = record
		}
	}
	return index
}

func matchKey(gstin partner.GSTIN, invoiceNumber string) string {
	return strings.ToUpper(gstin.String()) + "|" + strings.ToUpper(strings.TrimSpace(invoiceNumber))
}
