package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inr(t *testing.T, s string) Money {
	t.Helper()
	m, err := NewMoneyINRFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewMoney(t *testing.T) {
	t.Run("creates money with explicit currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(59100), INR)
		require.NoError(t, err)
		assert.Equal(t, INR, m.Currency())
		assert.Equal(t, "59100", m.Amount().String())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyINR(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromFloat(65282.00))
	assert.Equal(t, INR, m.Currency())
	assert.Equal(t, "65282.00 INR", m.String())

	f := NewMoneyINRFromFloat(5910.50)
	assert.Equal(t, "5910.50", f.StringFixed(2))

	_, err := NewMoneyINRFromString("not-a-number")
	require.Error(t, err)

	zero := ZeroINR()
	assert.True(t, zero.IsZero())
	assert.Equal(t, INR, zero.Currency())
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, inr(t, "500").IsPositive())
	assert.True(t, inr(t, "-1182").IsNegative())
	assert.False(t, inr(t, "0").IsPositive())
	assert.False(t, inr(t, "0").IsNegative())
}

func TestMoney_AddSubtract(t *testing.T) {
	goldValue := inr(t, "59100")
	makingCharge := inr(t, "5000")
	wastage := inr(t, "1182")

	taxable, err := goldValue.Add(makingCharge)
	require.NoError(t, err)
	taxable, err = taxable.Add(wastage)
	require.NoError(t, err)
	assert.Equal(t, "65282.00", taxable.StringFixed(2))

	back, err := taxable.Subtract(wastage)
	require.NoError(t, err)
	assert.Equal(t, "64100.00", back.StringFixed(2))

	t.Run("rejects mixed currencies", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(10), USD)
		require.NoError(t, err)
		_, err = goldValue.Add(usd)
		require.Error(t, err)
		_, err = goldValue.Subtract(usd)
		require.Error(t, err)
	})

	t.Run("Must variants panic on mixed currencies", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(10), USD)
		require.NoError(t, err)
		assert.Panics(t, func() { goldValue.MustAdd(usd) })
		assert.Panics(t, func() { goldValue.MustSubtract(usd) })
	})
}

func TestMoney_MultiplyDivide(t *testing.T) {
	perGram := inr(t, "5910")
	tenGrams := perGram.Multiply(decimal.NewFromInt(10))
	assert.Equal(t, "59100.00", tenGrams.StringFixed(2))

	half, err := tenGrams.Divide(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "29550.00", half.StringFixed(2))

	_, err = tenGrams.Divide(decimal.Zero)
	require.Error(t, err)
}

func TestMoney_Halve(t *testing.T) {
	gst := inr(t, "1958.46")
	cgst := gst.Halve()
	sgst := gst.Halve()
	assert.Equal(t, "979.23", cgst.StringFixed(2))

	sum, err := cgst.Add(sgst)
	require.NoError(t, err)
	assert.True(t, sum.Equals(gst))
}

func TestMoney_NegateAbsRound(t *testing.T) {
	diff := inr(t, "100.005")
	assert.Equal(t, "-100.005", diff.Negate().Amount().String())
	assert.Equal(t, "100.005", diff.Negate().Abs().Amount().String())
	assert.Equal(t, "100.01", diff.Round(2).Amount().String())
	assert.Equal(t, "100.01", diff.RoundPaise().Amount().String())
}

func TestMoney_Comparisons(t *testing.T) {
	a := inr(t, "3000")
	b := inr(t, "3000.00")
	c := inr(t, "3000.009")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))

	ok, err := a.WithinTolerance(c, decimal.NewFromFloat(0.01))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.WithinTolerance(inr(t, "3000.02"), decimal.NewFromFloat(0.01))
	require.NoError(t, err)
	assert.False(t, ok)

	less, err := a.LessThan(c)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := c.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	usd, err := NewMoney(decimal.NewFromInt(1), USD)
	require.NoError(t, err)
	_, err = a.LessThan(usd)
	require.Error(t, err)
	_, err = a.GreaterThan(usd)
	require.Error(t, err)
	_, err = a.WithinTolerance(usd, decimal.NewFromFloat(0.01))
	require.Error(t, err)
}

func TestMoney_JSON(t *testing.T) {
	m := inr(t, "67240.46")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"67240.46","currency":"INR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))

	require.Error(t, json.Unmarshal([]byte(`{"amount":"abc","currency":"INR"}`), &decoded))
}

func TestMoney_SQL(t *testing.T) {
	m := inr(t, "51500")
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "51500", v)

	var scanned Money
	require.NoError(t, scanned.Scan("51500"))
	assert.Equal(t, DefaultCurrency, scanned.Currency())
	assert.Equal(t, "51500", scanned.Amount().String())

	require.NoError(t, scanned.Scan([]byte("0.01")))
	assert.Equal(t, "0.01", scanned.Amount().String())

	var fromNil Money
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())
	assert.Equal(t, DefaultCurrency, fromNil.Currency())

	require.Error(t, scanned.Scan(42))
}

func TestMoney_Percentage(t *testing.T) {
	goldValue := inr(t, "59100")
	wastage := goldValue.CalculatePercentage(decimal.NewFromInt(2))
	assert.Equal(t, "1182.00", wastage.StringFixed(2))

	discounted := goldValue.ApplyDiscount(decimal.NewFromInt(10))
	assert.Equal(t, "53190.00", discounted.StringFixed(2))
}

func TestMoney_DisplayINR(t *testing.T) {
	// Indian digit grouping: comma after the last three digits, then
	// every two.
	assert.Equal(t, "₹67,24,046.50", inr(t, "6724046.50").DisplayINR())
	assert.Equal(t, "₹67,240.46", inr(t, "67240.455").DisplayINR())
	assert.Equal(t, "₹500.00", inr(t, "500").DisplayINR())
}
