package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricing(t *testing.T, karat Karat, baseRate, makingPerGram, makingPct, wastagePct float64) *KaratPricing {
	t.Helper()
	cfg, err := NewKaratPricing(uuid.New(), karat, decimal.NewFromFloat(baseRate))
	require.NoError(t, err)
	require.NoError(t, cfg.SetMakingCharges(decimal.NewFromFloat(makingPerGram), decimal.NewFromFloat(makingPct)))
	require.NoError(t, cfg.SetWastage(decimal.NewFromFloat(wastagePct)))
	return cfg
}

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator()

	t.Run("22K 10g retail quote", func(t *testing.T) {
		// 10g of 22K at 5910/g, 500/g making, 2% wastage, GST included
		cfg := testPricing(t, Karat22, 5910, 500, 10, 2)
		quote, err := calc.Calculate(QuoteRequest{
			Karat:            Karat22,
			WeightGrams:      decimal.NewFromInt(10),
			MakingChargeType: MakingChargePerGram,
			IncludeGST:       true,
		}, cfg)
		require.NoError(t, err)

		rounded := quote.Rounded()
		assert.Equal(t, "59100.00", rounded.GoldValue.StringFixed(2))
		assert.Equal(t, "5000.00", rounded.MakingCharges.StringFixed(2))
		assert.Equal(t, "1182.00", rounded.WastageCharges.StringFixed(2))
		assert.Equal(t, "65282.00", rounded.TaxableAmount.StringFixed(2))
		assert.Equal(t, "1958.46", rounded.TotalGST.StringFixed(2))
		assert.Equal(t, "979.23", rounded.CGST.StringFixed(2))
		assert.Equal(t, "979.23", rounded.SGST.StringFixed(2))
		assert.Equal(t, "67240.46", rounded.GrandTotal.StringFixed(2))
	})

	t.Run("percentage making charges use gold value as base", func(t *testing.T) {
		cfg := testPricing(t, Karat22, 6000, 500, 10, 2)
		quote, err := calc.Calculate(QuoteRequest{
			Karat:            Karat22,
			WeightGrams:      decimal.NewFromInt(10),
			MakingChargeType: MakingChargePercentage,
			IncludeGST:       false,
		}, cfg)
		require.NoError(t, err)

		// 10% of gold value 60000, not of gold value plus wastage
		assert.Equal(t, "6000.00", quote.MakingCharges.StringFixed(2))
	})

	t.Run("stone value and discount", func(t *testing.T) {
		cfg := testPricing(t, Karat18, 4500, 400, 10, 3)
		quote, err := calc.Calculate(QuoteRequest{
			Karat:              Karat18,
			WeightGrams:        decimal.NewFromInt(5),
			MakingChargeType:   MakingChargePerGram,
			IncludeGST:         true,
			StoneValue:         decimal.NewFromInt(3000),
			DiscountPercentage: decimal.NewFromInt(5),
		}, cfg)
		require.NoError(t, err)

		// gold 22500 + making 2000 + wastage 675 + stone 3000 = 28175
		assert.Equal(t, "28175.00", quote.Subtotal.StringFixed(2))
		assert.Equal(t, "1408.75", quote.DiscountAmount.StringFixed(2))
		assert.Equal(t, "26766.25", quote.TaxableAmount.StringFixed(2))
	})

	t.Run("no GST when excluded", func(t *testing.T) {
		cfg := testPricing(t, Karat22, 5910, 500, 10, 2)
		quote, err := calc.Calculate(QuoteRequest{
			Karat:            Karat22,
			WeightGrams:      decimal.NewFromInt(10),
			MakingChargeType: MakingChargePerGram,
		}, cfg)
		require.NoError(t, err)

		assert.True(t, quote.TotalGST.IsZero())
		assert.True(t, quote.CGST.IsZero())
		assert.True(t, quote.SGST.IsZero())
		assert.True(t, quote.GrandTotal.Equal(quote.TaxableAmount))
	})

	t.Run("taxable amount never negative", func(t *testing.T) {
		cfg := testPricing(t, Karat22, 5910, 500, 10, 2)
		for _, weight := range []float64{0.1, 1, 10, 250.75} {
			quote, err := calc.Calculate(QuoteRequest{
				Karat:            Karat22,
				WeightGrams:      decimal.NewFromFloat(weight),
				MakingChargeType: MakingChargePerGram,
				IncludeGST:       true,
			}, cfg)
			require.NoError(t, err)
			assert.False(t, quote.TaxableAmount.IsNegative())
		}
	})

	t.Run("grand total equals taxable plus GST", func(t *testing.T) {
		cfg := testPricing(t, Karat22, 5910, 500, 10, 2)
		quote, err := calc.Calculate(QuoteRequest{
			Karat:            Karat22,
			WeightGrams:      decimal.NewFromFloat(7.345),
			MakingChargeType: MakingChargePerGram,
			IncludeGST:       true,
		}, cfg)
		require.NoError(t, err)

		assert.True(t, quote.GrandTotal.Equal(quote.TaxableAmount.Add(quote.TotalGST)))
		assert.True(t, quote.TotalGST.Equal(quote.CGST.Add(quote.SGST)))
	})
}

func TestCalculator_Validation(t *testing.T) {
	calc := NewCalculator()
	cfg := testPricing(t, Karat22, 5910, 500, 10, 2)

	tests := []struct {
		name string
		req  QuoteRequest
		code string
	}{
		{
			name: "zero weight",
			req: QuoteRequest{
				Karat:            Karat22,
				WeightGrams:      decimal.Zero,
				MakingChargeType: MakingChargePerGram,
			},
			code: "VALIDATION_ERROR",
		},
		{
			name: "negative weight",
			req: QuoteRequest{
				Karat:            Karat22,
				WeightGrams:      decimal.NewFromInt(-5),
				MakingChargeType: MakingChargePerGram,
			},
			code: "VALIDATION_ERROR",
		},
		{
			name: "unknown karat",
			req: QuoteRequest{
				Karat:            Karat("16K"),
				WeightGrams:      decimal.NewFromInt(10),
				MakingChargeType: MakingChargePerGram,
			},
			code: "NOT_FOUND",
		},
		{
			name: "bad making charge type",
			req: QuoteRequest{
				Karat:            Karat22,
				WeightGrams:      decimal.NewFromInt(10),
				MakingChargeType: MakingChargeType("flat"),
			},
			code: "VALIDATION_ERROR",
		},
		{
			name: "negative stone value",
			req: QuoteRequest{
				Karat:            Karat22,
				WeightGrams:      decimal.NewFromInt(10),
				MakingChargeType: MakingChargePerGram,
				StoneValue:       decimal.NewFromInt(-100),
			},
			code: "VALIDATION_ERROR",
		},
		{
			name: "discount above 100",
			req: QuoteRequest{
				Karat:              Karat22,
				WeightGrams:        decimal.NewFromInt(10),
				MakingChargeType:   MakingChargePerGram,
				DiscountPercentage: decimal.NewFromInt(120),
			},
			code: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(tt.req, cfg)
			require.Error(t, err)
			assertDomainErrorCode(t, err, tt.code)
		})
	}

	t.Run("nil pricing config", func(t *testing.T) {
		_, err := calc.Calculate(QuoteRequest{
			Karat:            Karat22,
			WeightGrams:      decimal.NewFromInt(10),
			MakingChargeType: MakingChargePerGram,
		}, nil)
		require.Error(t, err)
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})
}

func TestCalculator_CalculateWithContext(t *testing.T) {
	calc := NewCalculator()

	t.Run("derives lower karat rate from 24K board rate", func(t *testing.T) {
		pctx := PricingContext{Rates: map[Karat]decimal.Decimal{
			Karat24: decimal.NewFromInt(7500),
		}}
		quote, err := calc.CalculateWithContext(QuoteRequest{
			Karat:            Karat22,
			WeightGrams:      decimal.NewFromInt(10),
			MakingChargeType: MakingChargePerGram,
		}, pctx)
		require.NoError(t, err)

		// 7500 x 91.6% = 6870/g
		assert.Equal(t, "6870.00", quote.GoldRatePerGram.StringFixed(2))
		assert.Equal(t, "68700.00", quote.GoldValue.StringFixed(2))
	})

	t.Run("fails when no rates configured", func(t *testing.T) {
		_, err := calc.CalculateWithContext(QuoteRequest{
			Karat:            Karat22,
			WeightGrams:      decimal.NewFromInt(10),
			MakingChargeType: MakingChargePerGram,
		}, PricingContext{Rates: map[Karat]decimal.Decimal{}})
		require.Error(t, err)
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})
}
