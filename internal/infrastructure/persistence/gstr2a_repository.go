package persistence

import (
	"context"

	"github.com/jewelerp/backend/internal/domain/gst"
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const importBatchSize = 500

// GormGSTR2ARepository implements GSTR2ARepository using GORM
type GormGSTR2ARepository struct {
	db *gorm.DB
}

// NewGormGSTR2ARepository creates a new GormGSTR2ARepository
func NewGormGSTR2ARepository(db *gorm.DB) *GormGSTR2ARepository {
	return &GormGSTR2ARepository{db: db}
}

// FindByPeriod finds the imported records for a filing period
func (r *GormGSTR2ARepository) FindByPeriod(ctx context.Context, tenantID uuid.UUID, period string) ([]gst.GSTR2ARecord, error) {
	var records []gst.GSTR2ARecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Order("supplier_gstin ASC, invoice_number ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindPageByPeriod returns one page of a period's records with the total count
func (r *GormGSTR2ARepository) FindPageByPeriod(ctx context.Context, tenantID uuid.UUID, period string, filter shared.Filter) ([]gst.GSTR2ARecord, int64, error) {
	base := r.db.WithContext(ctx).Model(&gst.GSTR2ARecord{}).
		Where("tenant_id = ? AND period = ?", tenantID, period)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []gst.GSTR2ARecord
	query := applyPagination(base, filter, StatementSortFields, "supplier_gstin")
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindBySupplier finds all imported records for a supplier GSTIN
func (r *GormGSTR2ARepository) FindBySupplier(ctx context.Context, tenantID uuid.UUID, gstin partner.GSTIN) ([]gst.GSTR2ARecord, error) {
	if gstin.IsZero() {
		return nil, shared.NewValidationError("GSTIN cannot be empty")
	}
	var records []gst.GSTR2ARecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_gstin = ?", tenantID, gstin.String()).
		Order("period DESC, invoice_number ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceForPeriod swaps the period's rows in one transaction
func (r *GormGSTR2ARepository) ReplaceForPeriod(ctx context.Context, tenantID uuid.UUID, period string, records []gst.GSTR2ARecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND period = ?", tenantID, period).
			Delete(&gst.GSTR2ARecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, importBatchSize).Error
	})
}

// CountByPeriod counts the imported records for a filing period
func (r *GormGSTR2ARepository) CountByPeriod(ctx context.Context, tenantID uuid.UUID, period string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&gst.GSTR2ARecord{}).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteForPeriod removes the imported records for a filing period
func (r *GormGSTR2ARepository) DeleteForPeriod(ctx context.Context, tenantID uuid.UUID, period string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Delete(&gst.GSTR2ARecord{}).Error
}

// Ensure GormGSTR2ARepository implements GSTR2ARepository
var _ gst.GSTR2ARepository = (*GormGSTR2ARepository)(nil)
