package catalog

import (
	"github.com/jewelerp/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU              string           `json:"sku" binding:"required,min=1,max=50"`
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	Description      string           `json:"description"`
	Karat            string           `json:"karat" binding:"required"`
	HSNCode          string           `json:"hsn_code"`
	Barcode          string           `json:"barcode"`
	GrossWeightGrams *decimal.Decimal `json:"gross_weight_grams"`
	NetWeightGrams   *decimal.Decimal `json:"net_weight_grams"`
	StoneValue       *decimal.Decimal `json:"stone_value"`
	SellingPrice     *decimal.Decimal `json:"selling_price"`
	GSTRate          *decimal.Decimal `json:"gst_rate"`
	StockQuantity    int              `json:"stock_quantity"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	HSNCode          *string          `json:"hsn_code"`
	Barcode          *string          `json:"barcode"`
	GrossWeightGrams *decimal.Decimal `json:"gross_weight_grams"`
	NetWeightGrams   *decimal.Decimal `json:"net_weight_grams"`
	SellingPrice     *decimal.Decimal `json:"selling_price"`
	GSTRate          *decimal.Decimal `json:"gst_rate"`
}

// AdjustStockRequest adds or removes stock
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Karat    string `form:"karat"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Barcode          string          `json:"barcode,omitempty"`
	HSNCode          string          `json:"hsn_code"`
	Karat            string          `json:"karat"`
	GrossWeightGrams decimal.Decimal `json:"gross_weight_grams"`
	NetWeightGrams   decimal.Decimal `json:"net_weight_grams"`
	StoneValue       decimal.Decimal `json:"stone_value"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	GSTRate          decimal.Decimal `json:"gst_rate"`
	StockQuantity    int             `json:"stock_quantity"`
	LowStock         bool            `json:"low_stock"`
	Status           string          `json:"status"`
}

// ToProductResponse converts a domain product to its response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:               product.ID,
		SKU:              product.SKU,
		Name:             product.Name,
		Description:      product.Description,
		Barcode:          product.Barcode,
		HSNCode:          product.HSNCode,
		Karat:            product.Karat.String(),
		GrossWeightGrams: product.GrossWeightGrams,
		NetWeightGrams:   product.NetWeightGrams,
		StoneValue:       product.StoneValue,
		SellingPrice:     product.SellingPrice,
		GSTRate:          product.GSTRate,
		StockQuantity:    product.StockQuantity,
		LowStock:         product.IsLowStock(),
		Status:           string(product.Status),
	}
}
