package integration

import (
	"context"
	"testing"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/jewelerp/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCustomerRepository_Integration tests the CustomerRepository against a real PostgreSQL database
func TestCustomerRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormCustomerRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	testDB.CreateTestTenantWithUUID(tenantID)

	t.Run("Save and FindByIDForTenant", func(t *testing.T) {
		customer, err := partner.NewCustomer(tenantID, "CUST-001", "Walk-in Customer", partner.CustomerTypeIndividual, "27")
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, customer))

		found, err := repo.FindByIDForTenant(ctx, tenantID, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		assert.Equal(t, "CUST-001", found.Code)
		assert.Equal(t, "27", found.StateCode)

		// Different tenant cannot see it
		_, err = repo.FindByIDForTenant(ctx, uuid.New(), customer.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindByGSTIN for registered customer", func(t *testing.T) {
		customer, err := partner.NewCustomer(tenantID, "CUST-002", "Registered Buyer Pvt Ltd", partner.CustomerTypeBusiness, "27")
		require.NoError(t, err)
		require.NoError(t, customer.SetGSTIN("27AAPFU0939F1ZV"))
		require.NoError(t, repo.Save(ctx, customer))

		found, err := repo.FindByGSTIN(ctx, tenantID, partner.GSTIN("27AAPFU0939F1ZV"))
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		assert.True(t, found.IsRegistered())
	})

	t.Run("Duplicate code within tenant fails", func(t *testing.T) {
		first, err := partner.NewCustomer(tenantID, "CUST-DUP", "First", partner.CustomerTypeIndividual, "27")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))

		second, err := partner.NewCustomer(tenantID, "CUST-DUP", "Second", partner.CustomerTypeIndividual, "27")
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, second))
	})
}

// TestSupplierRepository_Integration tests the SupplierRepository against a real PostgreSQL database
func TestSupplierRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormSupplierRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	testDB.CreateTestTenantWithUUID(tenantID)

	t.Run("Save and FindByGSTIN", func(t *testing.T) {
		supplier, err := partner.NewSupplier(tenantID, "SUP-001", "Mumbai Bullion House", partner.SupplierTypeBullionDealer, "27AABCU9603R1ZM")
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, supplier))

		found, err := repo.FindByGSTIN(ctx, tenantID, partner.GSTIN("27AABCU9603R1ZM"))
		require.NoError(t, err)
		assert.Equal(t, supplier.ID, found.ID)
		// GSTIN state code becomes the supplier's state
		assert.Equal(t, "27", found.StateCode)
	})

	t.Run("Blocked supplier round-trips status", func(t *testing.T) {
		supplier, err := partner.NewSupplier(tenantID, "SUP-002", "Surat Karigar Works", partner.SupplierTypeKarigar, "24AAACC1206D1ZM")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, supplier))

		require.NoError(t, supplier.Block())
		require.NoError(t, repo.Save(ctx, supplier))

		found, err := repo.FindByIDForTenant(ctx, tenantID, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, partner.SupplierStatusBlocked, found.Status)
	})
}
