// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRateBoardMetricsProvider implements RateBoardMetricsProvider using GORM.
// It queries the gold_rates table directly for aggregated metrics.
type GormRateBoardMetricsProvider struct {
	db *gorm.DB

	// now is overridable for tests
	now func() time.Time
}

// NewGormRateBoardMetricsProvider creates a new GormRateBoardMetricsProvider.
func NewGormRateBoardMetricsProvider(db *gorm.DB) *GormRateBoardMetricsProvider {
	return &GormRateBoardMetricsProvider{db: db, now: time.Now}
}

// GetLatestRateAge returns the age of the newest active gold rate for a tenant.
// A tenant with no active rates reports a zero age.
func (p *GormRateBoardMetricsProvider) GetLatestRateAge(ctx context.Context, tenantID uuid.UUID) (time.Duration, error) {
	var result struct {
		RateDate *time.Time `gorm:"column:rate_date"`
	}

	err := p.db.WithContext(ctx).
		Table("gold_rates").
		Select("MAX(rate_date) AS rate_date").
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	if result.RateDate == nil {
		return 0, nil
	}

	age := p.now().Sub(*result.RateDate)
	if age < 0 {
		age = 0
	}
	return age, nil
}

// GetActiveKaratCount returns the number of karats with an active rate for a tenant.
func (p *GormRateBoardMetricsProvider) GetActiveKaratCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64

	err := p.db.WithContext(ctx).
		Table("gold_rates").
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Distinct("karat").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

var _ RateBoardMetricsProvider = (*GormRateBoardMetricsProvider)(nil)

// GormTenantProvider lists tenants for periodic metric collection.
// A tenant is considered active once it has published at least one gold rate.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns the distinct tenant IDs present in the gold_rates table.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var tenantIDs []uuid.UUID

	err := p.db.WithContext(ctx).
		Table("gold_rates").
		Distinct("tenant_id").
		Pluck("tenant_id", &tenantIDs).Error
	if err != nil {
		return nil, err
	}

	return tenantIDs, nil
}

var _ TenantProvider = (*GormTenantProvider)(nil)
