package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitInclusive_IntraState(t *testing.T) {
	// A 10,000 rupee tag price at 3% GST backs out to 9,708.74 before tax.
	breakdown, err := SplitInclusive(decimal.NewFromInt(10000), decimal.NewFromInt(3), SupplyIntraState)
	require.NoError(t, err)

	rounded := breakdown.Rounded()
	assert.Equal(t, "9708.74", rounded.TaxableValue.StringFixed(2))
	assert.Equal(t, "291.26", rounded.TotalGST.StringFixed(2))
	assert.Equal(t, "145.63", rounded.CGST.StringFixed(2))
	assert.Equal(t, "145.63", rounded.SGST.StringFixed(2))
	assert.True(t, rounded.IGST.IsZero())
}

func TestSplitInclusive_InterState(t *testing.T) {
	breakdown, err := SplitInclusive(decimal.NewFromInt(10000), decimal.NewFromInt(3), SupplyInterState)
	require.NoError(t, err)

	rounded := breakdown.Rounded()
	assert.Equal(t, "291.26", rounded.IGST.StringFixed(2))
	assert.True(t, rounded.CGST.IsZero())
	assert.True(t, rounded.SGST.IsZero())
}

func TestSplitInclusive_RoundTrip(t *testing.T) {
	// Before rounding, taxable + gst must reconstruct the gross exactly.
	for _, gross := range []string{"10000", "67240.46", "0.01", "123456.789"} {
		amount := decimal.RequireFromString(gross)
		breakdown, err := SplitInclusive(amount, decimal.NewFromInt(3), SupplyIntraState)
		require.NoError(t, err)
		assert.True(t, breakdown.GrossValue().Sub(amount).Abs().LessThan(decimal.New(1, -10)), gross)
		assert.True(t, breakdown.CGST.Add(breakdown.SGST).Equal(breakdown.TotalGST), gross)
	}
}

func TestSplitInclusive_ZeroRate(t *testing.T) {
	breakdown, err := SplitInclusive(decimal.NewFromInt(5000), decimal.Zero, SupplyIntraState)
	require.NoError(t, err)
	assert.Equal(t, "5000", breakdown.TaxableValue.String())
	assert.True(t, breakdown.TotalGST.IsZero())
}

func TestSplitInclusive_Validation(t *testing.T) {
	_, err := SplitInclusive(decimal.NewFromInt(-1), decimal.NewFromInt(3), SupplyIntraState)
	require.Error(t, err)
	_, err = SplitInclusive(decimal.NewFromInt(100), decimal.NewFromInt(101), SupplyIntraState)
	require.Error(t, err)
	_, err = SplitInclusive(decimal.NewFromInt(100), decimal.NewFromInt(3), SupplyType("export"))
	require.Error(t, err)
}

func TestDetermineSupplyType(t *testing.T) {
	assert.Equal(t, SupplyIntraState, DetermineSupplyType("27", "27"))
	assert.Equal(t, SupplyInterState, DetermineSupplyType("27", "29"))
}
