package catalog

import (
	"context"
	"strings"

	"github.com/jewelerp/backend/internal/domain/catalog"
	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles jewellery catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	// Look up with the same normalization the constructor applies so a
	// case-variant SKU cannot slip past the uniqueness check.
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if existing, err := s.productRepo.FindBySKU(ctx, tenantID, sku); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with SKU "+sku+" already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, pricing.Karat(req.Karat))
	if err != nil {
		return nil, err
	}

	product.Description = req.Description
	if req.Barcode != "" {
		product.SetBarcode(req.Barcode)
	}
	if req.HSNCode != "" {
		if err := product.SetHSNCode(req.HSNCode); err != nil {
			return nil, err
		}
	}
	if req.GrossWeightGrams != nil && req.NetWeightGrams != nil {
		if err := product.SetWeights(*req.GrossWeightGrams, *req.NetWeightGrams); err != nil {
			return nil, err
		}
	}
	if req.StoneValue != nil {
		product.StoneValue = *req.StoneValue
	}
	if req.SellingPrice != nil {
		if err := product.SetSellingPrice(*req.SellingPrice); err != nil {
			return nil, err
		}
	}
	if req.GSTRate != nil {
		if err := product.SetGSTRate(*req.GSTRate); err != nil {
			return nil, err
		}
	}
	if req.StockQuantity > 0 {
		if err := product.IncrementStock(req.StockQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("created product",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sku", product.SKU))
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Karat != "" {
		domainFilter.Filters["karat"] = filter.Karat
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}

	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	return responses, total, nil
}

// Update updates a product's editable fields
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Barcode != nil {
		product.SetBarcode(*req.Barcode)
	}
	if req.HSNCode != nil {
		if err := product.SetHSNCode(*req.HSNCode); err != nil {
			return nil, err
		}
	}
	if req.GrossWeightGrams != nil && req.NetWeightGrams != nil {
		if err := product.SetWeights(*req.GrossWeightGrams, *req.NetWeightGrams); err != nil {
			return nil, err
		}
	}
	if req.SellingPrice != nil {
		if err := product.SetSellingPrice(*req.SellingPrice); err != nil {
			return nil, err
		}
	}
	if req.GSTRate != nil {
		if err := product.SetGSTRate(*req.GSTRate); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// AddStock increases stock for a product and returns the updated product
func (s *ProductService) AddStock(ctx context.Context, tenantID, productID uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if err := s.productRepo.IncrementStock(ctx, tenantID, productID, req.Quantity); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Discontinue marks a product as no longer sold
func (s *ProductService) Discontinue(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	product.Discontinue()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	return s.productRepo.Delete(ctx, tenantID, productID)
}
