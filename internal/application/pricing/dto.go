package pricing

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Karat Pricing DTOs ====================

// UpsertKaratPricingRequest creates or replaces a karat pricing configuration
type UpsertKaratPricingRequest struct {
	Karat                  string           `json:"karat" binding:"required"`
	BaseRatePerGram        decimal.Decimal  `json:"base_rate_per_gram" binding:"required"`
	MakingChargePerGram    *decimal.Decimal `json:"making_charge_per_gram"`
	MakingChargePercentage *decimal.Decimal `json:"making_charge_percentage"`
	WastagePercentage      *decimal.Decimal `json:"wastage_percentage"`
	Notes                  string           `json:"notes"`
}

// KaratPricingResponse represents a karat pricing configuration in API responses
type KaratPricingResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Karat                  string          `json:"karat"`
	PurityPercentage       decimal.Decimal `json:"purity_percentage"`
	BaseRatePerGram        decimal.Decimal `json:"base_rate_per_gram"`
	MakingChargePerGram    decimal.Decimal `json:"making_charge_per_gram"`
	MakingChargePercentage decimal.Decimal `json:"making_charge_percentage"`
	WastagePercentage      decimal.Decimal `json:"wastage_percentage"`
	EffectiveDate          time.Time       `json:"effective_date"`
	Notes                  string          `json:"notes,omitempty"`
}

// ToKaratPricingResponse converts a domain config to its response DTO
func ToKaratPricingResponse(cfg *pricing.KaratPricing) KaratPricingResponse {
	return KaratPricingResponse{
		ID:                     cfg.ID,
		Karat:                  cfg.Karat.String(),
		PurityPercentage:       cfg.PurityPercentage,
		BaseRatePerGram:        cfg.BaseRatePerGram,
		MakingChargePerGram:    cfg.MakingChargePerGram,
		MakingChargePercentage: cfg.MakingChargePercentage,
		WastagePercentage:      cfg.WastagePercentage,
		EffectiveDate:          cfg.EffectiveDate,
		Notes:                  cfg.Notes,
	}
}

// ==================== Quote DTOs ====================

// CalculateQuoteRequest asks for an itemized price quote
type CalculateQuoteRequest struct {
	Karat              string           `json:"karat" binding:"required"`
	WeightGrams        decimal.Decimal  `json:"weight_grams" binding:"required"`
	MakingChargeType   string           `json:"making_charge_type"`
	StoneValue         *decimal.Decimal `json:"stone_value"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	IncludeGST         bool             `json:"include_gst"`
}

// QuoteResponse is the itemized quote with all amounts rounded to paise
type QuoteResponse struct {
	Karat              string          `json:"karat"`
	WeightGrams        decimal.Decimal `json:"weight_grams"`
	RatePerGram        decimal.Decimal `json:"rate_per_gram"`
	GoldValue          decimal.Decimal `json:"gold_value"`
	MakingCharge       decimal.Decimal `json:"making_charge"`
	WastageCharge      decimal.Decimal `json:"wastage_charge"`
	StoneValue         decimal.Decimal `json:"stone_value"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TaxableAmount      decimal.Decimal `json:"taxable_amount"`
	CGST               decimal.Decimal `json:"cgst"`
	SGST               decimal.Decimal `json:"sgst"`
	TotalGST           decimal.Decimal `json:"total_gst"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	GrandTotalDisplay  string          `json:"grand_total_display"`
}

// ==================== Gold Rate DTOs ====================

// PublishGoldRateRequest publishes today's rate for a karat grade
type PublishGoldRateRequest struct {
	Karat       string          `json:"karat" binding:"required"`
	RatePerGram decimal.Decimal `json:"rate_per_gram" binding:"required"`
	RateDate    *time.Time      `json:"rate_date"`
	Notes       string          `json:"notes"`
}

// GoldRateResponse is one karat's rate on the board
type GoldRateResponse struct {
	Karat            string          `json:"karat"`
	RatePerGram      decimal.Decimal `json:"rate_per_gram"`
	RateDate         time.Time       `json:"rate_date"`
	ChangePercentage decimal.Decimal `json:"change_percentage"`
	Derived          bool            `json:"derived"` // true when computed from the 24K rate
}

// GoldRateBoardResponse is the full rate board shown in the shop
type GoldRateBoardResponse struct {
	Rates     []GoldRateResponse `json:"rates"`
	AsOf      time.Time          `json:"as_of"`
	FromCache bool               `json:"from_cache"`
}

// RepriceProductsResponse reports the outcome of a bulk reprice run
type RepriceProductsResponse struct {
	Total     int64 `json:"total"`
	Updated   int   `json:"updated"`
	Unchanged int   `json:"unchanged"`
	Skipped   int   `json:"skipped"`
}
