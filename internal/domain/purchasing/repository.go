package purchasing

import (
	"context"
	"time"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, poNumber string) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, int64, error)
	FindByInvoiceDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]PurchaseOrder, error)
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]PurchaseOrder, error)
	NextSequence(ctx context.Context, tenantID uuid.UUID, year int) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
