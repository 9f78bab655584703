package catalog

import (
	"context"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository persists products.
//
// DecrementStockIfAvailable must be an atomic conditional decrement
// (UPDATE ... WHERE stock_quantity >= ?); it returns ErrInsufficientStock
// when the condition fails. Concurrent checkouts rely on this guarantee.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	FindByKarat(ctx context.Context, tenantID uuid.UUID, karat string) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DecrementStockIfAvailable(ctx context.Context, tenantID, productID uuid.UUID, quantity int) error
	IncrementStock(ctx context.Context, tenantID, productID uuid.UUID, quantity int) error
}
