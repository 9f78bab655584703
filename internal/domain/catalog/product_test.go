package catalog

import (
	"testing"

	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	product, err := NewProduct(uuid.New(), "rng-001", "Gold Ring 22K", pricing.Karat22)
	require.NoError(t, err)
	return product
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with defaults", func(t *testing.T) {
		product := newTestProduct(t)
		assert.Equal(t, "RNG-001", product.SKU)
		assert.Equal(t, HSNGoldJewellery, product.HSNCode)
		assert.Equal(t, "3", product.GSTRate.String())
		assert.Equal(t, ProductStatusActive, product.Status)
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "  ", "Ring", pricing.Karat22)
		require.Error(t, err)
	})

	t.Run("rejects unknown karat", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "RNG-002", "Ring", pricing.Karat("16K"))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestProduct_SetWeights(t *testing.T) {
	product := newTestProduct(t)

	require.NoError(t, product.SetWeights(decimal.NewFromFloat(10.5), decimal.NewFromFloat(9.8)))
	assert.Equal(t, "10.5", product.GrossWeightGrams.String())

	err := product.SetWeights(decimal.NewFromFloat(5), decimal.NewFromFloat(6))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Net weight")
}

func TestProduct_Stock(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.IncrementStock(5))

	t.Run("decrement within stock", func(t *testing.T) {
		require.NoError(t, product.DecrementStock(3))
		assert.Equal(t, 2, product.StockQuantity)
		assert.True(t, product.IsLowStock())
	})

	t.Run("decrement beyond stock fails whole operation", func(t *testing.T) {
		err := product.DecrementStock(10)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, domainErr.Message, "Gold Ring 22K")
		assert.Equal(t, 2, product.StockQuantity) // unchanged
	})

	t.Run("non-positive quantities rejected", func(t *testing.T) {
		require.Error(t, product.DecrementStock(0))
		require.Error(t, product.IncrementStock(-1))
	})
}

func TestProduct_SetGSTRate(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.SetGSTRate(decimal.NewFromFloat(1.5)))
	require.Error(t, product.SetGSTRate(decimal.NewFromInt(-1)))
	require.Error(t, product.SetGSTRate(decimal.NewFromInt(101)))
}

func TestProduct_SetHSNCode(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.SetHSNCode("711319"))
	assert.Equal(t, "711319", product.HSNCode)
	require.Error(t, product.SetHSNCode("71"))
}
