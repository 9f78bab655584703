package pricing

import (
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GoldGSTPercent is the statutory GST rate on gold jewellery (3%),
// levied as 1.5% CGST + 1.5% SGST on intra-state retail sales.
var GoldGSTPercent = decimal.NewFromInt(3)

var oneHundred = decimal.NewFromInt(100)

// QuoteRequest describes one price calculation. It is ephemeral and never
// persisted; every field is validated before use.
type QuoteRequest struct {
	Karat              Karat
	WeightGrams        decimal.Decimal
	MakingChargeType   MakingChargeType
	IncludeGST         bool
	StoneValue         decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// Quote is the derived price breakdown. Amounts carry full precision
// internally; Rounded() produces the 2-decimal display form.
//
// Invariants:
//
//	TaxableAmount == GoldValue + MakingCharges + WastageCharges + StoneValue - DiscountAmount
//	GrandTotal    == TaxableAmount + TotalGST
type Quote struct {
	Karat            Karat
	PurityPercentage decimal.Decimal
	WeightGrams      decimal.Decimal
	GoldRatePerGram  decimal.Decimal
	GoldValue        decimal.Decimal
	MakingCharges    decimal.Decimal
	WastageCharges   decimal.Decimal
	StoneValue       decimal.Decimal
	Subtotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxableAmount    decimal.Decimal
	CGST             decimal.Decimal
	SGST             decimal.Decimal
	TotalGST         decimal.Decimal
	GrandTotal       decimal.Decimal
}

// Rounded returns a copy with every amount rounded half-up to 2 decimal
// places. Rounding is applied only here, at the display boundary, so the
// CGST/SGST halves never drift apart by a compounding paisa.
func (q Quote) Rounded() Quote {
	r := q
	r.GoldValue = q.GoldValue.Round(2)
	r.MakingCharges = q.MakingCharges.Round(2)
	r.WastageCharges = q.WastageCharges.Round(2)
	r.StoneValue = q.StoneValue.Round(2)
	r.Subtotal = q.Subtotal.Round(2)
	r.DiscountAmount = q.DiscountAmount.Round(2)
	r.TaxableAmount = q.TaxableAmount.Round(2)
	r.CGST = q.CGST.Round(2)
	r.SGST = q.SGST.Round(2)
	r.TotalGST = q.TotalGST.Round(2)
	r.GrandTotal = q.GrandTotal.Round(2)
	return r
}

// Calculator computes karat-based price quotes
type Calculator struct{}

// NewCalculator creates a new Calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate produces a price quote for the request against a karat pricing
// configuration.
//
// gold value    = weight x base rate per gram
// making        = weight x making charge per gram, or gold value x making %
// wastage       = gold value x wastage %
// discount      = (gold + making + wastage + stone) x discount %
// taxable       = gold + making + wastage + stone - discount
// GST           = taxable x 3%, split equally into CGST and SGST
//
// Percentage-mode making charges are computed on gold value alone, not
// gold value plus wastage.
func (c *Calculator) Calculate(req QuoteRequest, cfg *KaratPricing) (*Quote, error) {
	if cfg == nil {
		return nil, shared.NewNotFoundError("Pricing for " + req.Karat.String() + " not found")
	}
	if err := c.validate(req); err != nil {
		return nil, err
	}
	if cfg.Karat != req.Karat {
		return nil, shared.NewValidationError("Pricing configuration does not match requested karat")
	}

	goldValue := req.WeightGrams.Mul(cfg.BaseRatePerGram)

	var makingCharges decimal.Decimal
	if req.MakingChargeType == MakingChargePerGram {
		makingCharges = req.WeightGrams.Mul(cfg.MakingChargePerGram)
	} else {
		makingCharges = goldValue.Mul(cfg.MakingChargePercentage).Div(oneHundred)
	}

	wastageCharges := goldValue.Mul(cfg.WastagePercentage).Div(oneHundred)

	subtotal := goldValue.Add(makingCharges).Add(wastageCharges).Add(req.StoneValue)
	discountAmount := subtotal.Mul(req.DiscountPercentage).Div(oneHundred)
	taxableAmount := subtotal.Sub(discountAmount)

	if taxableAmount.IsNegative() {
		return nil, shared.NewValidationError("Discount produces a negative taxable amount")
	}

	quote := &Quote{
		Karat:            req.Karat,
		PurityPercentage: cfg.PurityPercentage,
		WeightGrams:      req.WeightGrams,
		GoldRatePerGram:  cfg.BaseRatePerGram,
		GoldValue:        goldValue,
		MakingCharges:    makingCharges,
		WastageCharges:   wastageCharges,
		StoneValue:       req.StoneValue,
		Subtotal:         subtotal,
		DiscountAmount:   discountAmount,
		TaxableAmount:    taxableAmount,
	}

	if req.IncludeGST {
		quote.TotalGST = taxableAmount.Mul(GoldGSTPercent).Div(oneHundred)
		half := quote.TotalGST.Div(decimal.NewFromInt(2))
		quote.CGST = half
		quote.SGST = half
	}
	quote.GrandTotal = taxableAmount.Add(quote.TotalGST)

	return quote, nil
}

// CalculateWithContext quotes a karat that has no stored pricing row by
// deriving the base rate from the current gold-rate board. Making charge
// and wastage defaults match the seeded configuration for walk-in quotes.
func (c *Calculator) CalculateWithContext(req QuoteRequest, pctx PricingContext) (*Quote, error) {
	rate, err := pctx.RateFor(req.Karat)
	if err != nil {
		return nil, err
	}
	cfg := &KaratPricing{
		Karat:                  req.Karat,
		PurityPercentage:       req.Karat.Purity(),
		BaseRatePerGram:        rate,
		MakingChargePerGram:    decimal.NewFromInt(500),
		MakingChargePercentage: decimal.NewFromInt(10),
		WastagePercentage:      decimal.NewFromInt(3),
	}
	return c.Calculate(req, cfg)
}

func (c *Calculator) validate(req QuoteRequest) error {
	if !req.Karat.IsValid() {
		return shared.NewNotFoundError("Unknown karat grade " + req.Karat.String())
	}
	if req.WeightGrams.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Weight must be positive")
	}
	if !req.MakingChargeType.IsValid() {
		return shared.NewValidationError("Making charge type must be per_gram or percentage")
	}
	if req.StoneValue.IsNegative() {
		return shared.NewValidationError("Stone value cannot be negative")
	}
	if req.DiscountPercentage.IsNegative() || req.DiscountPercentage.GreaterThan(oneHundred) {
		return shared.NewValidationError("Discount percentage must be between 0 and 100")
	}
	return nil
}
