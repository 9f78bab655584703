package catalog

import (
	"context"
	"testing"

	"github.com/jewelerp/backend/internal/domain/catalog"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByKarat(ctx context.Context, tenantID uuid.UUID, karat string) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, karat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStockIfAvailable(ctx context.Context, tenantID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, tenantID, productID, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, tenantID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, tenantID, productID, quantity)
	return args.Error(0)
}

func TestProductService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates a product with weights and price", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, zap.NewNop())

		repo.On("FindBySKU", mock.Anything, tenantID, "RING-22K-001").Return(nil, shared.ErrNotFound).Once()
		repo.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.SKU == "RING-22K-001" && p.StockQuantity == 5 && p.HSNCode == "7113"
		})).Return(nil).Once()

		gross := decimal.NewFromFloat(10.5)
		net := decimal.NewFromFloat(10.2)
		price := decimal.NewFromInt(68000)
		response, err := service.Create(context.Background(), tenantID, CreateProductRequest{
			SKU:              "ring-22k-001",
			Name:             "Gold Ring 22K",
			Karat:            "22K",
			GrossWeightGrams: &gross,
			NetWeightGrams:   &net,
			SellingPrice:     &price,
			StockQuantity:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, "RING-22K-001", response.SKU)
		assert.Equal(t, "22K", response.Karat)
		assert.Equal(t, "7113", response.HSNCode)
		assert.Equal(t, 5, response.StockQuantity)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate SKU", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, zap.NewNop())

		existing, err := catalog.NewProduct(tenantID, "RING-22K-001", "Gold Ring 22K", "22K")
		require.NoError(t, err)
		repo.On("FindBySKU", mock.Anything, tenantID, "RING-22K-001").Return(existing, nil).Once()

		_, err = service.Create(context.Background(), tenantID, CreateProductRequest{
			SKU:   "RING-22K-001",
			Name:  "Gold Ring 22K",
			Karat: "22K",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an unknown karat grade", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, zap.NewNop())
		repo.On("FindBySKU", mock.Anything, tenantID, "X-1").Return(nil, shared.ErrNotFound).Once()

		_, err := service.Create(context.Background(), tenantID, CreateProductRequest{
			SKU:   "X-1",
			Name:  "Mystery Item",
			Karat: "23K",
		})
		require.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockProductRepository)
	service := NewProductService(repo, zap.NewNop())

	product, err := catalog.NewProduct(tenantID, "CHAIN-18K-002", "Gold Chain 18K", "18K")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil).Once()
	repo.On("Save", mock.Anything, product).Return(nil).Once()

	newName := "Gold Chain 18K Rope"
	newPrice := decimal.NewFromInt(45500)
	response, err := service.Update(context.Background(), tenantID, product.ID, UpdateProductRequest{
		Name:         &newName,
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gold Chain 18K Rope", response.Name)
	assert.Equal(t, "45500", response.SellingPrice.String())
	repo.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockProductRepository)
	service := NewProductService(repo, zap.NewNop())

	product, err := catalog.NewProduct(tenantID, "BANGLE-22K-003", "Gold Bangle 22K", "22K")
	require.NoError(t, err)

	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.Filters["karat"] == "22K"
	})).Return([]catalog.Product{*product}, int64(1), nil).Once()

	responses, total, err := service.List(context.Background(), tenantID, ProductListFilter{Karat: "22K"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)
	assert.Equal(t, "BANGLE-22K-003", responses[0].SKU)
	repo.AssertExpectations(t)
}

func TestProductService_AddStock(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockProductRepository)
	service := NewProductService(repo, zap.NewNop())

	product, err := catalog.NewProduct(tenantID, "COIN-24K-005", "Gold Coin 24K", "24K")
	require.NoError(t, err)
	require.NoError(t, product.IncrementStock(3))

	repo.On("IncrementStock", mock.Anything, tenantID, product.ID, 3).Return(nil).Once()
	repo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil).Once()

	response, err := service.AddStock(context.Background(), tenantID, product.ID, AdjustStockRequest{Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, response.StockQuantity)

	_, err = service.AddStock(context.Background(), tenantID, product.ID, AdjustStockRequest{Quantity: 0})
	require.Error(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_Discontinue(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockProductRepository)
	service := NewProductService(repo, zap.NewNop())

	product, err := catalog.NewProduct(tenantID, "RING-18K-007", "Gold Ring 18K", "18K")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil).Once()
	repo.On("Save", mock.Anything, product).Return(nil).Once()

	response, err := service.Discontinue(context.Background(), tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, string(catalog.ProductStatusDiscontinued), response.Status)
	repo.AssertExpectations(t)
}
