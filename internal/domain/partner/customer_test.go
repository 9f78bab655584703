package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates walk-in customer", func(t *testing.T) {
		customer, err := NewCustomer(tenantID, "cust-001", "Priya Sharma", CustomerTypeIndividual, "27")
		require.NoError(t, err)
		assert.Equal(t, "CUST-001", customer.Code)
		assert.Equal(t, CustomerStatusActive, customer.Status)
		assert.False(t, customer.IsRegistered())
	})

	t.Run("rejects unknown state code", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "CUST-002", "Priya Sharma", CustomerTypeIndividual, "99")
		require.Error(t, err)
	})

	t.Run("rejects bad code and name", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "cust 003", "Priya", CustomerTypeIndividual, "27")
		require.Error(t, err)
		_, err = NewCustomer(tenantID, "CUST-003", "  ", CustomerTypeIndividual, "27")
		require.Error(t, err)
	})
}

func TestCustomer_SetGSTIN(t *testing.T) {
	tenantID := uuid.New()
	customer, err := NewCustomer(tenantID, "CUST-001", "Mehta Traders", CustomerTypeIndividual, "27")
	require.NoError(t, err)

	t.Run("registering a GSTIN makes the customer B2B", func(t *testing.T) {
		require.NoError(t, customer.SetGSTIN("29AABCU9603R1ZM"))
		assert.True(t, customer.IsRegistered())
		assert.Equal(t, CustomerTypeBusiness, customer.Type)
		assert.Equal(t, "29", customer.StateCode) // place of supply follows the GSTIN
	})

	t.Run("address state must match the GSTIN state", func(t *testing.T) {
		err := customer.SetAddress("12 MG Road", "Mumbai", "27", "400001")
		require.Error(t, err)
		require.NoError(t, customer.SetAddress("12 Brigade Road", "Bengaluru", "29", "560001"))
	})

	t.Run("clearing the GSTIN", func(t *testing.T) {
		require.NoError(t, customer.SetGSTIN(""))
		assert.False(t, customer.IsRegistered())
	})
}

func TestCustomer_Lifecycle(t *testing.T) {
	customer, err := NewCustomer(uuid.New(), "CUST-001", "Priya Sharma", CustomerTypeIndividual, "27")
	require.NoError(t, err)

	require.NoError(t, customer.Deactivate())
	assert.False(t, customer.IsActive())
	require.Error(t, customer.Deactivate())
	require.NoError(t, customer.Activate())
	require.Error(t, customer.Activate())
}

func TestCustomer_SetContact(t *testing.T) {
	customer, err := NewCustomer(uuid.New(), "CUST-001", "Priya Sharma", CustomerTypeIndividual, "27")
	require.NoError(t, err)

	require.NoError(t, customer.SetContact("+91 98765 43210", "priya@example.com"))
	require.Error(t, customer.SetContact("not-a-phone!", ""))
	require.Error(t, customer.SetContact("", "not-an-email"))
}
