package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoldRate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("publishes active rate", func(t *testing.T) {
		rate, err := NewGoldRate(tenantID, Karat24, decimal.NewFromInt(7500), time.Now())
		require.NoError(t, err)
		assert.True(t, rate.IsActive)
		assert.Equal(t, Karat24, rate.Karat)
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		_, err := NewGoldRate(tenantID, Karat24, decimal.Zero, time.Now())
		require.Error(t, err)
		assertDomainErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects unknown karat", func(t *testing.T) {
		_, err := NewGoldRate(tenantID, Karat("12K"), decimal.NewFromInt(5000), time.Now())
		require.Error(t, err)
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})
}

func TestGoldRate_ChangeFrom(t *testing.T) {
	tenantID := uuid.New()
	prev, err := NewGoldRate(tenantID, Karat24, decimal.NewFromInt(7500), time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	curr, err := NewGoldRate(tenantID, Karat24, decimal.NewFromInt(7650), time.Now())
	require.NoError(t, err)

	assert.Equal(t, "2.00", curr.ChangeFrom(prev).StringFixed(2))
	assert.True(t, curr.ChangeFrom(nil).IsZero())
}

func TestPricingContext_RateFor(t *testing.T) {
	tenantID := uuid.New()
	r24, err := NewGoldRate(tenantID, Karat24, decimal.NewFromInt(7500), time.Now())
	require.NoError(t, err)
	r22, err := NewGoldRate(tenantID, Karat22, decimal.NewFromInt(6900), time.Now())
	require.NoError(t, err)
	inactive, err := NewGoldRate(tenantID, Karat18, decimal.NewFromInt(5000), time.Now())
	require.NoError(t, err)
	inactive.Deactivate()

	pctx := NewPricingContext([]GoldRate{*r24, *r22, *inactive})

	t.Run("published rate wins", func(t *testing.T) {
		rate, err := pctx.RateFor(Karat22)
		require.NoError(t, err)
		assert.Equal(t, "6900", rate.String())
	})

	t.Run("inactive rates are ignored and derived from 24K", func(t *testing.T) {
		rate, err := pctx.RateFor(Karat18)
		require.NoError(t, err)
		assert.Equal(t, "5625", rate.String()) // 7500 x 75%
	})

	t.Run("unknown karat", func(t *testing.T) {
		_, err := pctx.RateFor(Karat("12K"))
		require.Error(t, err)
	})
}
