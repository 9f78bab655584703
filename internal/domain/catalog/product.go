package catalog

import (
	"strings"
	"time"

	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// HSNGoldJewellery is the HSN chapter heading for articles of jewellery;
// new products default to it unless overridden.
const HSNGoldJewellery = "7113"

// Product represents a jewellery item/SKU in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.TenantAggregateRoot
	SKU              string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name             string          `gorm:"type:varchar(200);not null"`
	Description      string          `gorm:"type:text"`
	Barcode          string          `gorm:"type:varchar(50);index"`
	HSNCode          string          `gorm:"type:varchar(8);not null"`
	Karat            pricing.Karat   `gorm:"type:varchar(4);not null"`
	GrossWeightGrams decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	NetWeightGrams   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StoneValue       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// SellingPrice is GST-inclusive; the invoice engine backs the tax out.
	SellingPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GSTRate           decimal.Decimal `gorm:"type:decimal(5,2);not null;default:3"`
	StockQuantity     int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:2"`
	Status            ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new jewellery product
func NewProduct(tenantID uuid.UUID, sku, name string, karat pricing.Karat) (*Product, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewValidationError("SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewValidationError("SKU cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if !karat.IsValid() {
		return nil, shared.NewNotFoundError("Unknown karat grade " + karat.String())
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		HSNCode:             HSNGoldJewellery,
		Karat:               karat,
		GSTRate:             decimal.NewFromInt(3),
		Status:              ProductStatusActive,
		LowStockThreshold:   2,
	}, nil
}

// SetWeights sets gross and net gold weight in grams
func (p *Product) SetWeights(gross, net decimal.Decimal) error {
	if gross.IsNegative() || net.IsNegative() {
		return shared.NewValidationError("Weights cannot be negative")
	}
	if net.GreaterThan(gross) {
		return shared.NewValidationError("Net weight cannot exceed gross weight")
	}
	p.GrossWeightGrams = gross
	p.NetWeightGrams = net
	p.touch()
	return nil
}

// SetSellingPrice sets the GST-inclusive selling price
func (p *Product) SetSellingPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Selling price cannot be negative")
	}
	p.SellingPrice = price
	p.touch()
	return nil
}

// SetGSTRate sets the GST rate percentage applied on sales of this product
func (p *Product) SetGSTRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("GST rate must be between 0 and 100")
	}
	p.GSTRate = rate
	p.touch()
	return nil
}

// SetHSNCode sets the HSN classification code
func (p *Product) SetHSNCode(code string) error {
	code = strings.TrimSpace(code)
	if len(code) < 4 || len(code) > 8 {
		return shared.NewValidationError("HSN code must be 4 to 8 digits")
	}
	p.HSNCode = code
	p.touch()
	return nil
}

// SetBarcode assigns the printed barcode for the tag
func (p *Product) SetBarcode(barcode string) {
	p.Barcode = barcode
	p.touch()
}

// IsLowStock reports whether stock has fallen to the alert threshold
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// DecrementStock reduces stock for a sale. The repository provides the
// atomic conditional decrement; this guard covers the in-memory aggregate.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be positive")
	}
	if quantity > p.StockQuantity {
		return shared.NewInsufficientStockError(p.Name)
	}
	p.StockQuantity -= quantity
	p.touch()
	return nil
}

// IncrementStock adds stock, e.g. on purchase receipt or sale cancellation
func (p *Product) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be positive")
	}
	p.StockQuantity += quantity
	p.touch()
	return nil
}

// Discontinue marks the product as no longer sold
func (p *Product) Discontinue() {
	p.Status = ProductStatusDiscontinued
	p.touch()
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
