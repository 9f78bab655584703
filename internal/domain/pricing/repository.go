package pricing

import (
	"context"

	"github.com/google/uuid"
)

// KaratPricingRepository persists karat pricing configurations
type KaratPricingRepository interface {
	FindByKarat(ctx context.Context, tenantID uuid.UUID, karat Karat) (*KaratPricing, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]KaratPricing, error)
	Save(ctx context.Context, pricing *KaratPricing) error
	Delete(ctx context.Context, tenantID uuid.UUID, karat Karat) error
}

// GoldRateRepository persists the published gold-rate board
type GoldRateRepository interface {
	FindLatest(ctx context.Context, tenantID uuid.UUID) ([]GoldRate, error)
	FindLatestByKarat(ctx context.Context, tenantID uuid.UUID, karat Karat) (*GoldRate, error)
	FindHistory(ctx context.Context, tenantID uuid.UUID, karat Karat, limit int) ([]GoldRate, error)
	Save(ctx context.Context, rate *GoldRate) error
	DeactivatePrevious(ctx context.Context, tenantID uuid.UUID, karat Karat) error
}
