package gst

import (
	"testing"
	"time"

	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_FourOfFiveIn2B(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	// Five purchases on the books; the supplier reported only four in 2B.
	purchases := []purchasing.PurchaseOrder{
		recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/101", aug, 100000, 1500, 1500, 0),
		recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/102", aug, 50000, 750, 750, 0),
		recordedPurchase(t, "29AABCU9603R1ZM", "MGW-4521", aug, 100000, 0, 0, 3000),
		recordedPurchase(t, "29AABCU9603R1ZM", "MGW-4544", aug, 20000, 0, 0, 600),
		recordedPurchase(t, "27AADCB2230M1ZT", "SJ-889", aug, 30000, 450, 450, 0),
	}
	gstr2b := []PortalInvoice{
		portalEcho(t, purchases[0]),
		portalEcho(t, purchases[1]),
		portalEcho(t, purchases[2]),
		portalEcho(t, purchases[3]),
	}

	service := NewReconciliationService()
	result, err := service.Reconcile(period, nil, gstr2b, purchases)
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalPurchases)
	assert.Equal(t, 0, result.Total2ARecords)
	assert.Equal(t, 4, result.Total2BRecords)
	assert.Equal(t, 4, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)
	assert.Zero(t, result.MismatchedCount)

	require.Len(t, result.Discrepancies, 1)
	finding := result.Discrepancies[0]
	assert.Equal(t, DiscrepancyMissingIn2B, finding.Type)
	assert.Equal(t, "27AADCB2230M1ZT", finding.SupplierGSTIN.String())
	assert.Equal(t, "SJ-889", finding.InvoiceNumber)

	// The four confirmed purchases carry their booked tax as claimable;
	// the unreported one's 900 stays out.
	assert.Equal(t, "8100.00", result.ITCClaimable.StringFixed(2))
	assert.Equal(t, "900.00", result.ITCNotClaimable.StringFixed(2))

	t.Run("running again gives the same result", func(t *testing.T) {
		again, err := service.Reconcile(period, nil, gstr2b, purchases)
		require.NoError(t, err)
		assert.Equal(t, result, again)
	})
}

func TestReconcile_BothStatements(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	confirmed := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/101", aug, 100000, 1500, 1500, 0)
	onlyIn2A := recordedPurchase(t, "29AABCU9603R1ZM", "MGW-4521", aug, 50000, 0, 0, 1500)

	gstr2a := []PortalInvoice{portalEcho(t, confirmed), portalEcho(t, onlyIn2A)}
	gstr2b := []PortalInvoice{portalEcho(t, confirmed)}

	service := NewReconciliationService()
	result, err := service.Reconcile(period, gstr2a, gstr2b, []purchasing.PurchaseOrder{confirmed, onlyIn2A})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total2ARecords)
	assert.Equal(t, 1, result.Total2BRecords)
	assert.Equal(t, 2, result.MatchedCount)
	assert.Zero(t, result.UnmatchedCount)

	// Both purchases matched, but only the 2B-confirmed one is claimable.
	assert.Equal(t, "3000.00", result.ITCClaimable.StringFixed(2))
	assert.Equal(t, "1500.00", result.ITCNotClaimable.StringFixed(2))

	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, DiscrepancyMissingIn2B, result.Discrepancies[0].Type)
	assert.Equal(t, "MGW-4521", result.Discrepancies[0].InvoiceNumber)

	// 2A carries both invoices; the register books both. Values agree.
	assert.True(t, result.VarianceAmount.IsZero(), "variance was %s", result.VarianceAmount)
}

func TestReconcile_MissingIn2AFlaggedOnlyWhenImported(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	booked := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/101", aug, 100000, 1500, 1500, 0)
	other := recordedPurchase(t, "29AABCU9603R1ZM", "MGW-4521", aug, 50000, 750, 750, 0)

	service := NewReconciliationService()

	// With a 2A import present, the absent purchase is flagged there too.
	result, err := service.Reconcile(period, []PortalInvoice{portalEcho(t, other)}, []PortalInvoice{portalEcho(t, booked), portalEcho(t, other)}, []purchasing.PurchaseOrder{booked, other})
	require.NoError(t, err)
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, DiscrepancyMissingIn2A, result.Discrepancies[0].Type)
	assert.Equal(t, "RB/2024/101", result.Discrepancies[0].InvoiceNumber)

	// Without any 2A records the same purchase draws no 2A finding.
	result, err = service.Reconcile(period, nil, []PortalInvoice{portalEcho(t, booked), portalEcho(t, other)}, []purchasing.PurchaseOrder{booked, other})
	require.NoError(t, err)
	assert.Empty(t, result.Discrepancies)
}

func TestReconcile_MissingLocally(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	unreported := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/150", aug, 10000, 150, 150, 0)

	service := NewReconciliationService()
	echo := portalEcho(t, unreported)
	result, err := service.Reconcile(period, []PortalInvoice{echo}, []PortalInvoice{echo}, nil)
	require.NoError(t, err)

	assert.Zero(t, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)

	// The same invoice appearing in both statements is one finding.
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, DiscrepancyMissingLocally, result.Discrepancies[0].Type)
	assert.Equal(t, "10300.00", result.Discrepancies[0].PortalValue.StringFixed(2))
}

func TestReconcile_AmountMismatch(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	po := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/101", aug, 100000, 1500, 1500, 0)

	t.Run("difference beyond tolerance flags a mismatch", func(t *testing.T) {
		drifted := portalEcho(t, po)
		drifted.TaxableValue = drifted.TaxableValue.Sub(decimal.NewFromInt(10))
		service := NewReconciliationService()
		result, err := service.Reconcile(period, nil, []PortalInvoice{drifted}, []purchasing.PurchaseOrder{po})
		require.NoError(t, err)

		assert.Equal(t, 1, result.MismatchedCount)
		assert.Zero(t, result.MatchedCount)
		require.Len(t, result.Discrepancies, 1)
		finding := result.Discrepancies[0]
		assert.Equal(t, DiscrepancyAmountMismatch, finding.Type)
		assert.Equal(t, "10.00", finding.Difference.StringFixed(2))

		// A mismatched 2B entry does not release the credit.
		assert.True(t, result.ITCClaimable.IsZero())
		assert.Equal(t, "3000.00", result.ITCNotClaimable.StringFixed(2))
	})

	t.Run("a paisa of drift stays within tolerance", func(t *testing.T) {
		drifted := portalEcho(t, po)
		drifted.TaxableValue = drifted.TaxableValue.Sub(decimal.NewFromFloat(0.01))
		service := NewReconciliationService()
		result, err := service.Reconcile(period, nil, []PortalInvoice{drifted}, []purchasing.PurchaseOrder{po})
		require.NoError(t, err)
		assert.Equal(t, 1, result.MatchedCount)
		assert.Empty(t, result.Discrepancies)
	})
}

func TestReconcile_ITCBlockedBy2BFlag(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	po := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/101", aug, 100000, 1500, 1500, 0)

	blocked := portalEcho(t, po)
	notAvailable := false
	blocked.ITCAvailable = &notAvailable

	service := NewReconciliationService()
	result, err := service.Reconcile(period, nil, []PortalInvoice{blocked}, []purchasing.PurchaseOrder{po})
	require.NoError(t, err)

	// Matched, but the portal says the credit is not available.
	assert.Equal(t, 1, result.MatchedCount)
	assert.True(t, result.ITCClaimable.IsZero())
	assert.Equal(t, "3000.00", result.ITCNotClaimable.StringFixed(2))
}

func TestReconcile_VarianceIsSigned(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	po := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/101", aug, 100000, 1500, 1500, 0)

	// The portal reports 500 less than the register booked.
	short := portalEcho(t, po)
	short.InvoiceValue = short.InvoiceValue.Sub(decimal.NewFromInt(500))

	service := NewReconciliationService()
	result, err := service.Reconcile(period, []PortalInvoice{short}, nil, []purchasing.PurchaseOrder{po})
	require.NoError(t, err)

	assert.Equal(t, "102500.00", result.Total2AValue.StringFixed(2))
	assert.Equal(t, "103000.00", result.TotalPurchaseValue.StringFixed(2))
	assert.Equal(t, "-500.00", result.VarianceAmount.StringFixed(2))
}

func TestReconcile_InputValidation(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	service := NewReconciliationService()

	t.Run("all inputs empty", func(t *testing.T) {
		_, err := service.Reconcile(period, nil, nil, nil)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RECONCILIATION_INPUT", domainErr.Code)
	})

	t.Run("negative tolerance", func(t *testing.T) {
		_, err := NewReconciliationServiceWithTolerance(decimal.NewFromInt(-1))
		require.Error(t, err)
	})
}

func TestReconcile_SkipsUnkeyedPurchases(t *testing.T) {
	period := FilingPeriod{Month: 8, Year: 2024}
	aug := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	keyed := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/101", aug, 100000, 1500, 1500, 0)

	// A purchase with no supplier bill recorded yet cannot be matched.
	unkeyed := recordedPurchase(t, "27AAPFU0939F1ZV", "RB/2024/102", aug, 50000, 750, 750, 0)
	unkeyed.SupplierInvoiceNumber = ""

	service := NewReconciliationService()
	result, err := service.Reconcile(period, nil, []PortalInvoice{portalEcho(t, keyed)}, []purchasing.PurchaseOrder{keyed, unkeyed})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalPurchases)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Empty(t, result.Discrepancies)
}
