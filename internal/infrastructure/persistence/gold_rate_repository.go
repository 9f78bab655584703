package persistence

import (
	"context"
	"errors"

	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/jewelerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGoldRateRepository implements GoldRateRepository using GORM
type GormGoldRateRepository struct {
	db *gorm.DB
}

// NewGormGoldRateRepository creates a new GormGoldRateRepository
func NewGormGoldRateRepository(db *gorm.DB) *GormGoldRateRepository {
	return &GormGoldRateRepository{db: db}
}

// FindLatest finds the active board rate for every purity grade of a tenant
func (r *GormGoldRateRepository) FindLatest(ctx context.Context, tenantID uuid.UUID) ([]pricing.GoldRate, error) {
	var rows []models.GoldRateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("karat ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rates := make([]pricing.GoldRate, len(rows))
	for i := range rows {
		rates[i] = *rows[i].ToDomain()
	}
	return rates, nil
}

// FindLatestByKarat finds the active board rate for a purity grade
func (r *GormGoldRateRepository) FindLatestByKarat(ctx context.Context, tenantID uuid.UUID, karat pricing.Karat) (*pricing.GoldRate, error) {
	var model models.GoldRateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND karat = ? AND is_active = ?", tenantID, karat, true).
		Order("rate_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindHistory returns past rates for a purity grade, newest first
func (r *GormGoldRateRepository) FindHistory(ctx context.Context, tenantID uuid.UUID, karat pricing.Karat, limit int) ([]pricing.GoldRate, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND karat = ?", tenantID, karat).
		Order("rate_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.GoldRateModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	rates := make([]pricing.GoldRate, len(rows))
	for i := range rows {
		rates[i] = *rows[i].ToDomain()
	}
	return rates, nil
}

// Save creates or updates a gold rate row
func (r *GormGoldRateRepository) Save(ctx context.Context, rate *pricing.GoldRate) error {
	model := models.GoldRateModelFromDomain(rate)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeactivatePrevious retires the currently active rate rows for a purity grade
func (r *GormGoldRateRepository) DeactivatePrevious(ctx context.Context, tenantID uuid.UUID, karat pricing.Karat) error {
	return r.db.WithContext(ctx).
		Model(&models.GoldRateModel{}).
		Where("tenant_id = ? AND karat = ? AND is_active = ?", tenantID, karat, true).
		UpdateColumn("is_active", false).Error
}

// Ensure GormGoldRateRepository implements GoldRateRepository
var _ pricing.GoldRateRepository = (*GormGoldRateRepository)(nil)
