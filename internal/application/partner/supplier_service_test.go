package partner

import (
	"context"
	"testing"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByGSTIN(ctx context.Context, tenantID uuid.UUID, gstin partner.GSTIN) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, gstin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func TestSupplierService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates a bullion dealer", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, zap.NewNop())

		repo.On("FindByCode", mock.Anything, tenantID, "SUP-001").Return(nil, shared.ErrNotFound).Once()
		repo.On("FindByGSTIN", mock.Anything, tenantID, partner.GSTIN("27AADCB2230M1ZT")).Return(nil, shared.ErrNotFound).Once()
		repo.On("Save", mock.Anything, mock.MatchedBy(func(s *partner.Supplier) bool {
			return s.Code == "SUP-001" && s.StateCode == "27" && s.CreditDays == 15
		})).Return(nil).Once()

		response, err := service.Create(context.Background(), tenantID, CreateSupplierRequest{
			Code:       "sup-001",
			Name:       "Mumbai Bullion House",
			Type:       "bullion_dealer",
			GSTIN:      "27aadcb2230m1zt",
			CreditDays: 15,
		})
		require.NoError(t, err)
		assert.Equal(t, "SUP-001", response.Code)
		assert.Equal(t, "27AADCB2230M1ZT", response.GSTIN)
		assert.Equal(t, "Maharashtra", response.StateName)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a missing GSTIN", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, zap.NewNop())
		repo.On("FindByCode", mock.Anything, tenantID, "SUP-002").Return(nil, shared.ErrNotFound).Once()

		_, err := service.Create(context.Background(), tenantID, CreateSupplierRequest{
			Code: "SUP-002",
			Name: "No GSTIN Traders",
			Type: "manufacturer",
		})
		require.Error(t, err)
	})

	t.Run("rejects a duplicate GSTIN", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, zap.NewNop())

		existing, err := partner.NewSupplier(tenantID, "SUP-001", "Mumbai Bullion House", partner.SupplierTypeBullionDealer, "27AADCB2230M1ZT")
		require.NoError(t, err)
		repo.On("FindByCode", mock.Anything, tenantID, "SUP-003").Return(nil, shared.ErrNotFound).Once()
		repo.On("FindByGSTIN", mock.Anything, tenantID, partner.GSTIN("27AADCB2230M1ZT")).Return(existing, nil).Once()

		_, err = service.Create(context.Background(), tenantID, CreateSupplierRequest{
			Code:  "SUP-003",
			Name:  "Duplicate GSTIN Traders",
			Type:  "manufacturer",
			GSTIN: "27AADCB2230M1ZT",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestSupplierService_Block(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo, zap.NewNop())

	supplier, err := partner.NewSupplier(tenantID, "SUP-010", "Karigar Works", partner.SupplierTypeKarigar, "27AAPFU0939F1ZV")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, supplier.ID).Return(supplier, nil).Once()
	repo.On("Save", mock.Anything, supplier).Return(nil).Once()

	require.NoError(t, service.Block(context.Background(), tenantID, supplier.ID))
	assert.True(t, supplier.IsBlocked())
	repo.AssertExpectations(t)
}

func TestSupplierService_Update(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo, zap.NewNop())

	supplier, err := partner.NewSupplier(tenantID, "SUP-011", "Chennai Gold Crafts", partner.SupplierTypeManufacturer, "33AABCU9603R1ZA")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, supplier.ID).Return(supplier, nil).Once()
	repo.On("Save", mock.Anything, supplier).Return(nil).Once()

	creditDays := 30
	response, err := service.Update(context.Background(), tenantID, supplier.ID, UpdateSupplierRequest{
		CreditDays: &creditDays,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, response.CreditDays)
	repo.AssertExpectations(t)
}
