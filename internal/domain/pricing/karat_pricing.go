package pricing

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MakingChargeType determines how making charges are computed
type MakingChargeType string

const (
	MakingChargePerGram    MakingChargeType = "per_gram"
	MakingChargePercentage MakingChargeType = "percentage"
)

// IsValid checks if the making charge type is recognized
func (t MakingChargeType) IsValid() bool {
	return t == MakingChargePerGram || t == MakingChargePercentage
}

// KaratPricing holds the pricing configuration for one karat grade.
// There is exactly one row per (tenant, karat); admin edits overwrite in
// place, no per-edit history is kept.
type KaratPricing struct {
	shared.TenantAggregateRoot
	Karat                  Karat
	PurityPercentage       decimal.Decimal
	BaseRatePerGram        decimal.Decimal
	MakingChargePerGram    decimal.Decimal
	MakingChargePercentage decimal.Decimal
	WastagePercentage      decimal.Decimal
	EffectiveDate          time.Time
	Notes                  string
}

// NewKaratPricing creates a pricing configuration for a karat grade
func NewKaratPricing(tenantID uuid.UUID, karat Karat, baseRatePerGram decimal.Decimal) (*KaratPricing, error) {
	if !karat.IsValid() {
		return nil, shared.NewNotFoundError("Unknown karat grade " + karat.String())
	}
	if baseRatePerGram.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Base rate per gram must be positive")
	}
	return &KaratPricing{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Karat:               karat,
		PurityPercentage:    karat.Purity(),
		BaseRatePerGram:     baseRatePerGram,
		EffectiveDate:       time.Now(),
	}, nil
}

// SetMakingCharges sets both per-gram and percentage making charges
func (p *KaratPricing) SetMakingCharges(perGram, percentage decimal.Decimal) error {
	if perGram.IsNegative() || percentage.IsNegative() {
		return shared.NewValidationError("Making charges cannot be negative")
	}
	p.MakingChargePerGram = perGram
	p.MakingChargePercentage = percentage
	p.UpdatedAt = time.Now()
	return nil
}

// SetWastage sets the wastage percentage applied on gold value
func (p *KaratPricing) SetWastage(percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("Wastage percentage must be between 0 and 100")
	}
	p.WastagePercentage = percentage
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateBaseRate replaces the per-gram base rate, e.g. after a daily rate change
func (p *KaratPricing) UpdateBaseRate(rate decimal.Decimal, effective time.Time) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Base rate per gram must be positive")
	}
	p.BaseRatePerGram = rate
	p.EffectiveDate = effective
	p.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets free-form notes on the pricing row
func (p *KaratPricing) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
}
