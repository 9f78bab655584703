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

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByGSTIN(ctx context.Context, tenantID uuid.UUID, gstin partner.GSTIN) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, gstin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates a walk-in customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, zap.NewNop())

		repo.On("FindByCode", mock.Anything, tenantID, "CUST-001").Return(nil, shared.ErrNotFound).Once()
		repo.On("Save", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
			return c.Code == "CUST-001" && c.Type == partner.CustomerTypeIndividual
		})).Return(nil).Once()

		response, err := service.Create(context.Background(), tenantID, CreateCustomerRequest{
			Code:      "cust-001",
			Name:      "Priya Sharma",
			StateCode: "27",
			Phone:     "+91 98200 12345",
		})
		require.NoError(t, err)
		assert.Equal(t, "CUST-001", response.Code)
		assert.Equal(t, "individual", response.Type)
		assert.Equal(t, "Maharashtra", response.StateName)
		assert.False(t, response.Registered)
		repo.AssertExpectations(t)
	})

	t.Run("GSTIN makes the customer a registered business", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, zap.NewNop())

		repo.On("FindByCode", mock.Anything, tenantID, "CUST-002").Return(nil, shared.ErrNotFound).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		response, err := service.Create(context.Background(), tenantID, CreateCustomerRequest{
			Code:      "CUST-002",
			Name:      "Urban Gold Traders",
			StateCode: "27",
			GSTIN:     "29AABCU9603R1ZM",
		})
		require.NoError(t, err)
		assert.Equal(t, "business", response.Type)
		assert.True(t, response.Registered)
		// the GSTIN state wins over the requested state code
		assert.Equal(t, "29", response.StateCode)
		assert.Equal(t, "Karnataka", response.StateName)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, zap.NewNop())

		existing, err := partner.NewCustomer(tenantID, "CUST-001", "Priya Sharma", partner.CustomerTypeIndividual, "27")
		require.NoError(t, err)
		repo.On("FindByCode", mock.Anything, tenantID, "CUST-001").Return(existing, nil).Once()

		_, err = service.Create(context.Background(), tenantID, CreateCustomerRequest{
			Code:      "CUST-001",
			Name:      "Priya Sharma",
			StateCode: "27",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects an invalid GSTIN", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, zap.NewNop())
		repo.On("FindByCode", mock.Anything, tenantID, "CUST-003").Return(nil, shared.ErrNotFound).Once()

		_, err := service.Create(context.Background(), tenantID, CreateCustomerRequest{
			Code:      "CUST-003",
			Name:      "Bad GSTIN Co",
			StateCode: "27",
			GSTIN:     "INVALID",
		})
		require.Error(t, err)
	})
}

func TestCustomerService_Update(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo, zap.NewNop())

	customer, err := partner.NewCustomer(tenantID, "CUST-010", "Rahul Mehta", partner.CustomerTypeIndividual, "27")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil).Once()
	repo.On("Save", mock.Anything, customer).Return(nil).Once()

	gstin := "27AAPFU0939F1ZV"
	response, err := service.Update(context.Background(), tenantID, customer.ID, UpdateCustomerRequest{
		GSTIN: &gstin,
	})
	require.NoError(t, err)
	assert.True(t, response.Registered)
	assert.Equal(t, "business", response.Type)
	repo.AssertExpectations(t)
}

func TestCustomerService_Deactivate(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo, zap.NewNop())

	customer, err := partner.NewCustomer(tenantID, "CUST-011", "Anita Desai", partner.CustomerTypeIndividual, "27")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil).Once()
	repo.On("Save", mock.Anything, customer).Return(nil).Once()

	require.NoError(t, service.Deactivate(context.Background(), tenantID, customer.ID))
	assert.False(t, customer.IsActive())
	repo.AssertExpectations(t)
}
