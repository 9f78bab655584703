package persistence

import (
	"context"

	"github.com/jewelerp/backend/internal/domain/gst"
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGSTR2BRepository implements GSTR2BRepository using GORM
type GormGSTR2BRepository struct {
	db *gorm.DB
}

// NewGormGSTR2BRepository creates a new GormGSTR2BRepository
func NewGormGSTR2BRepository(db *gorm.DB) *GormGSTR2BRepository {
	return &GormGSTR2BRepository{db: db}
}

// FindByPeriod finds the imported records for a filing period
func (r *GormGSTR2BRepository) FindByPeriod(ctx context.Context, tenantID uuid.UUID, period string) ([]gst.GSTR2BRecord, error) {
	var records []gst.GSTR2BRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Order("supplier_gstin ASC, invoice_number ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindPageByPeriod returns one page of a period's records with the total count
func (r *GormGSTR2BRepository) FindPageByPeriod(ctx context.Context, tenantID uuid.UUID, period string, filter shared.Filter) ([]gst.GSTR2BRecord, int64, error) {
	base := r.db.WithContext(ctx).Model(&gst.GSTR2BRecord{}).
		Where("tenant_id = ? AND period = ?", tenantID, period)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []gst.GSTR2BRecord
	query := applyPagination(base, filter, StatementSortFields, "supplier_gstin")
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindBySupplier finds all imported records for a supplier GSTIN
func (r *GormGSTR2BRepository) FindBySupplier(ctx context.Context, tenantID uuid.UUID, gstin partner.GSTIN) ([]gst.GSTR2BRecord, error) {
	if gstin.IsZero() {
		return nil, shared.NewValidationError("GSTIN cannot be empty")
	}
	var records []gst.GSTR2BRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_gstin = ?", tenantID, gstin.String()).
		Order("period DESC, invoice_number ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceForPeriod swaps the period's rows in one transaction
func (r *GormGSTR2BRepository) ReplaceForPeriod(ctx context.Context, tenantID uuid.UUID, period string, records []gst.GSTR2BRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND period = ?", tenantID, period).
			Delete(&gst.GSTR2BRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, importBatchSize).Error
	})
}

// CountByPeriod counts the imported records for a filing period
func (r *GormGSTR2BRepository) CountByPeriod(ctx context.Context, tenantID uuid.UUID, period string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&gst.GSTR2BRecord{}).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteForPeriod removes the imported records for a filing period
func (r *GormGSTR2BRepository) DeleteForPeriod(ctx context.Context, tenantID uuid.UUID, period string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Delete(&gst.GSTR2BRecord{}).Error
}

// Ensure GormGSTR2BRepository implements GSTR2BRepository
var _ gst.GSTR2BRepository = (*GormGSTR2BRepository)(nil)
