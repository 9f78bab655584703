package pricing

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoldRate is one published per-gram rate for a purity grade on a given day.
// Rates are append-only; the latest active rate per karat is the board rate.
type GoldRate struct {
	shared.TenantAggregateRoot
	Karat       Karat
	RatePerGram decimal.Decimal
	RateDate    time.Time
	Notes       string
	IsActive    bool
}

// NewGoldRate publishes a new rate for a purity grade
func NewGoldRate(tenantID uuid.UUID, karat Karat, ratePerGram decimal.Decimal, rateDate time.Time) (*GoldRate, error) {
	if !karat.IsValid() {
		return nil, shared.NewNotFoundError("Unknown karat grade " + karat.String())
	}
	if ratePerGram.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Rate per gram must be positive")
	}
	return &GoldRate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Karat:               karat,
		RatePerGram:         ratePerGram,
		RateDate:            rateDate,
		IsActive:            true,
	}, nil
}

// Deactivate marks the rate as superseded
func (r *GoldRate) Deactivate() {
	r.IsActive = false
	r.UpdatedAt = time.Now()
}

// ChangeFrom returns the percentage change relative to a previous rate,
// or zero when there is no previous rate to compare against.
func (r *GoldRate) ChangeFrom(previous *GoldRate) decimal.Decimal {
	if previous == nil || previous.RatePerGram.IsZero() {
		return decimal.Zero
	}
	return r.RatePerGram.Sub(previous.RatePerGram).
		Div(previous.RatePerGram).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// PricingContext carries the current board rates into a price calculation.
// It replaces the ambient "current gold rate" global the POS screens used,
// so every calculation is reproducible from its inputs.
type PricingContext struct {
	Rates map[Karat]decimal.Decimal
	AsOf  time.Time
}

// NewPricingContext builds a context from the latest active rates
func NewPricingContext(rates []GoldRate) PricingContext {
	ctx := PricingContext{
		Rates: make(map[Karat]decimal.Decimal, len(rates)),
		AsOf:  time.Now(),
	}
	for _, r := range rates {
		if r.IsActive {
			ctx.Rates[r.Karat] = r.RatePerGram
		}
	}
	return ctx
}

// RateFor returns the board rate for a karat grade. When the grade has no
// published rate, the 24K rate is scaled by purity, matching how jewellers
// quote lower karats off the fine-gold rate.
func (c PricingContext) RateFor(karat Karat) (decimal.Decimal, error) {
	if !karat.IsValid() {
		return decimal.Zero, shared.NewNotFoundError("Unknown karat grade " + karat.String())
	}
	if rate, ok := c.Rates[karat]; ok {
		return rate, nil
	}
	fine, ok := c.Rates[Karat24]
	if !ok {
		return decimal.Zero, shared.NewNotFoundError("Gold rate not configured. Please set gold rates first.")
	}
	return fine.Mul(karat.Purity()).Div(decimal.NewFromInt(100)), nil
}
