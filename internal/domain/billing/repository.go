package billing

import (
	"context"
	"time"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository persists sales invoices.
//
// NextSequence must hand out gapless, monotonically increasing numbers
// per tenant and year, safe under concurrent invoice creation.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Invoice, error)
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]Invoice, error)
	NextSequence(ctx context.Context, tenantID uuid.UUID, year int) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
