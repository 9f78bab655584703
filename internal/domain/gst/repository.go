package gst

import (
	"context"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GSTR2ARepository persists imported GSTR-2A records.
// ReplaceForPeriod swaps a period's rows atomically so a re-import
// never leaves a mix of old and new data.
type GSTR2ARepository interface {
	FindByPeriod(ctx context.Context, tenantID uuid.UUID, period string) ([]GSTR2ARecord, error)
	FindPageByPeriod(ctx context.Context, tenantID uuid.UUID, period string, filter shared.Filter) ([]GSTR2ARecord, int64, error)
	FindBySupplier(ctx context.Context, tenantID uuid.UUID, gstin partner.GSTIN) ([]GSTR2ARecord, error)
	ReplaceForPeriod(ctx context.Context, tenantID uuid.UUID, period string, records []GSTR2ARecord) error
	CountByPeriod(ctx context.Context, tenantID uuid.UUID, period string) (int64, error)
	DeleteForPeriod(ctx context.Context, tenantID uuid.UUID, period string) error
}

// GSTR2BRepository persists imported GSTR-2B records with the same
// replace-on-import semantics as GSTR2ARepository.
type GSTR2BRepository interface {
	FindByPeriod(ctx context.Context, tenantID uuid.UUID, period string) ([]GSTR2BRecord, error)
	FindPageByPeriod(ctx context.Context, tenantID uuid.UUID, period string, filter shared.Filter) ([]GSTR2BRecord, int64, error)
	FindBySupplier(ctx context.Context, tenantID uuid.UUID, gstin partner.GSTIN) ([]GSTR2BRecord, error)
	ReplaceForPeriod(ctx context.Context, tenantID uuid.UUID, period string, records []GSTR2BRecord) error
	CountByPeriod(ctx context.Context, tenantID uuid.UUID, period string) (int64, error)
	DeleteForPeriod(ctx context.Context, tenantID uuid.UUID, period string) error
}
