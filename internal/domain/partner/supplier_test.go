package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupplier(t *testing.T) *Supplier {
	t.Helper()
	supplier, err := NewSupplier(uuid.New(), "sup-001", "Rajesh Bullion House", SupplierTypeBullionDealer, "27AAPFU0939F1ZV")
	require.NoError(t, err)
	return supplier
}

func TestNewSupplier(t *testing.T) {
	t.Run("creates supplier with state from GSTIN", func(t *testing.T) {
		supplier := newTestSupplier(t)
		assert.Equal(t, "SUP-001", supplier.Code)
		assert.Equal(t, "27", supplier.StateCode)
		assert.True(t, supplier.IsActive())
	})

	t.Run("GSTIN is mandatory", func(t *testing.T) {
		_, err := NewSupplier(uuid.New(), "SUP-002", "Karigar Works", SupplierTypeKarigar, "")
		require.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewSupplier(uuid.New(), "SUP-002", "Karigar Works", SupplierType("broker"), "27AAPFU0939F1ZV")
		require.Error(t, err)
	})
}

func TestSupplier_Balance(t *testing.T) {
	supplier := newTestSupplier(t)

	require.NoError(t, supplier.AddBalance(decimal.NewFromInt(100000)))
	require.NoError(t, supplier.DeductBalance(decimal.NewFromInt(40000)))
	assert.Equal(t, "60000", supplier.Balance.String())

	require.Error(t, supplier.DeductBalance(decimal.NewFromInt(70000)))
	require.Error(t, supplier.AddBalance(decimal.Zero))
}

func TestSupplier_Lifecycle(t *testing.T) {
	supplier := newTestSupplier(t)

	require.NoError(t, supplier.Block())
	assert.True(t, supplier.IsBlocked())
	require.Error(t, supplier.Block())

	require.NoError(t, supplier.Activate())
	require.NoError(t, supplier.Deactivate())
	assert.False(t, supplier.IsActive())
}

func TestSupplier_SetCreditDays(t *testing.T) {
	supplier := newTestSupplier(t)
	require.NoError(t, supplier.SetCreditDays(30))
	require.Error(t, supplier.SetCreditDays(-1))
	require.Error(t, supplier.SetCreditDays(400))
}
