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

// GormKaratPricingRepository implements KaratPricingRepository using GORM
type GormKaratPricingRepository struct {
	db *gorm.DB
}

// NewGormKaratPricingRepository creates a new GormKaratPricingRepository
func NewGormKaratPricingRepository(db *gorm.DB) *GormKaratPricingRepository {
	return &GormKaratPricingRepository{db: db}
}

// FindByKarat finds the pricing configuration for a purity grade within a tenant
func (r *GormKaratPricingRepository) FindByKarat(ctx context.Context, tenantID uuid.UUID, karat pricing.Karat) (*pricing.KaratPricing, error) {
	var model models.KaratPricingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND karat = ?", tenantID, karat).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all pricing configurations for a tenant
func (r *GormKaratPricingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]pricing.KaratPricing, error) {
	var rows []models.KaratPricingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("karat ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	pricings := make([]pricing.KaratPricing, len(rows))
	for i := range rows {
		pricings[i] = *rows[i].ToDomain()
	}
	return pricings, nil
}

// Save creates or updates a pricing configuration
func (r *GormKaratPricingRepository) Save(ctx context.Context, p *pricing.KaratPricing) error {
	model := models.KaratPricingModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes the pricing configuration for a purity grade within a tenant
func (r *GormKaratPricingRepository) Delete(ctx context.Context, tenantID uuid.UUID, karat pricing.Karat) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND karat = ?", tenantID, karat).
		Delete(&models.KaratPricingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormKaratPricingRepository implements KaratPricingRepository
var _ pricing.KaratPricingRepository = (*GormKaratPricingRepository)(nil)
