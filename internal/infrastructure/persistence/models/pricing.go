package models

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// KaratPricingModel is the persistence model for the KaratPricing aggregate root.
// One row per (tenant, karat); edits overwrite in place.
type KaratPricingModel struct {
	TenantAggregateModel
	Karat                  pricing.Karat   `gorm:"type:varchar(4);not null;uniqueIndex:idx_karat_pricing_tenant_karat,priority:2"`
	PurityPercentage       decimal.Decimal `gorm:"type:decimal(6,3);not null"`
	BaseRatePerGram        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MakingChargePerGram    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MakingChargePercentage decimal.Decimal `gorm:"type:decimal(6,3);not null;default:0"`
	WastagePercentage      decimal.Decimal `gorm:"type:decimal(6,3);not null;default:0"`
	EffectiveDate          time.Time       `gorm:"not null"`
	Notes                  string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (KaratPricingModel) TableName() string {
	return "karat_pricings"
}

// ToDomain converts the persistence model to a domain KaratPricing entity.
func (m *KaratPricingModel) ToDomain() *pricing.KaratPricing {
	p := &pricing.KaratPricing{
		Karat:                  m.Karat,
		PurityPercentage:       m.PurityPercentage,
		BaseRatePerGram:        m.BaseRatePerGram,
		MakingChargePerGram:    m.MakingChargePerGram,
		MakingChargePercentage: m.MakingChargePercentage,
		WastagePercentage:      m.WastagePercentage,
		EffectiveDate:          m.EffectiveDate,
		Notes:                  m.Notes,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain KaratPricing entity.
func (m *KaratPricingModel) FromDomain(p *pricing.KaratPricing) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Karat = p.Karat
	m.PurityPercentage = p.PurityPercentage
	m.BaseRatePerGram = p.BaseRatePerGram
	m.MakingChargePerGram = p.MakingChargePerGram
	m.MakingChargePercentage = p.MakingChargePercentage
	m.WastagePercentage = p.WastagePercentage
	m.EffectiveDate = p.EffectiveDate
	m.Notes = p.Notes
}

// KaratPricingModelFromDomain creates a new persistence model from a domain KaratPricing entity.
func KaratPricingModelFromDomain(p *pricing.KaratPricing) *KaratPricingModel {
	m := &KaratPricingModel{}
	m.FromDomain(p)
	return m
}

// GoldRateModel is the persistence model for the GoldRate aggregate root.
// Rows are append-only; the active row per (tenant, karat) is the board rate.
type GoldRateModel struct {
	TenantAggregateModel
	Karat       pricing.Karat   `gorm:"type:varchar(4);not null;index:idx_gold_rate_tenant_karat,priority:2"`
	RatePerGram decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RateDate    time.Time       `gorm:"not null;index"`
	Notes       string          `gorm:"type:text"`
	IsActive    bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (GoldRateModel) TableName() string {
	return "gold_rates"
}

// ToDomain converts the persistence model to a domain GoldRate entity.
func (m *GoldRateModel) ToDomain() *pricing.GoldRate {
	r := &pricing.GoldRate{
		Karat:       m.Karat,
		RatePerGram: m.RatePerGram,
		RateDate:    m.RateDate,
		Notes:       m.Notes,
		IsActive:    m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain GoldRate entity.
func (m *GoldRateModel) FromDomain(r *pricing.GoldRate) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Karat = r.Karat
	m.RatePerGram = r.RatePerGram
	m.RateDate = r.RateDate
	m.Notes = r.Notes
	m.IsActive = r.IsActive
}

// GoldRateModelFromDomain creates a new persistence model from a domain GoldRate entity.
func GoldRateModelFromDomain(r *pricing.GoldRate) *GoldRateModel {
	m := &GoldRateModel{}
	m.FromDomain(r)
	return m
}
