package pricing

import (
	"context"

	"github.com/jewelerp/backend/internal/domain/catalog"
	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/jewelerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeded defaults for a fresh tenant. Admins adjust per karat afterwards.
var (
	defaultMakingPerGram    = decimal.NewFromInt(500)
	defaultMakingPercentage = decimal.NewFromInt(10)
	defaultWastagePercent   = decimal.NewFromInt(3)
)

// KaratPricingService manages karat pricing configurations and quotes
type KaratPricingService struct {
	pricingRepo pricing.KaratPricingRepository
	rateRepo    pricing.GoldRateRepository
	productRepo catalog.ProductRepository
	calculator  *pricing.Calculator
	logger      *zap.Logger
}

// NewKaratPricingService creates a new KaratPricingService
func NewKaratPricingService(pricingRepo pricing.KaratPricingRepository, rateRepo pricing.GoldRateRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *KaratPricingService {
	return &KaratPricingService{
		pricingRepo: pricingRepo,
		rateRepo:    rateRepo,
		productRepo: productRepo,
		calculator:  pricing.NewCalculator(),
		logger:      logger,
	}
}

// InitializeDefaults seeds one pricing row per karat grade, deriving
// each base rate from the 24K rate by purity. Existing rows are left
// untouched so re-running is safe.
func (s *KaratPricingService) InitializeDefaults(ctx context.Context, tenantID uuid.UUID, rate24K decimal.Decimal) ([]KaratPricingResponse, error) {
	if rate24K.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("24K base rate must be positive")
	}

	responses := make([]KaratPricingResponse, 0, len(pricing.AllKarats()))
	for _, karat := range pricing.AllKarats() {
		existing, err := s.pricingRepo.FindByKarat(ctx, tenantID, karat)
		if err == nil && existing != nil {
			responses = append(responses, ToKaratPricingResponse(existing))
			continue
		}

		baseRate := rate24K.Mul(karat.Purity()).Div(decimal.NewFromInt(100))
		cfg, err := pricing.NewKaratPricing(tenantID, karat, baseRate)
		if err != nil {
			return nil, err
		}
		if err := cfg.SetMakingCharges(defaultMakingPerGram, defaultMakingPercentage); err != nil {
			return nil, err
		}
		if err := cfg.SetWastage(defaultWastagePercent); err != nil {
			return nil, err
		}
		if err := s.pricingRepo.Save(ctx, cfg); err != nil {
			return nil, err
		}
		responses = append(responses, ToKaratPricingResponse(cfg))
	}

	s.logger.Info("seeded default karat pricing",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("karats", len(responses)))
	return responses, nil
}

// Upsert creates or replaces the pricing row for a karat grade
func (s *KaratPricingService) Upsert(ctx context.Context, tenantID uuid.UUID, req UpsertKaratPricingRequest) (*KaratPricingResponse, error) {
	karat := pricing.Karat(req.Karat)

	cfg, err := s.pricingRepo.FindByKarat(ctx, tenantID, karat)
	if err != nil || cfg == nil {
		cfg, err = pricing.NewKaratPricing(tenantID, karat, req.BaseRatePerGram)
		if err != nil {
			return nil, err
		}
	} else {
		if err := cfg.UpdateBaseRate(req.BaseRatePerGram, cfg.EffectiveDate); err != nil {
			return nil, err
		}
	}

	perGram := cfg.MakingChargePerGram
	if req.MakingChargePerGram != nil {
		perGram = *req.MakingChargePerGram
	}
	percentage := cfg.MakingChargePercentage
	if req.MakingChargePercentage != nil {
		percentage = *req.MakingChargePercentage
	}
	if err := cfg.SetMakingCharges(perGram, percentage); err != nil {
		return nil, err
	}
	if req.WastagePercentage != nil {
		if err := cfg.SetWastage(*req.WastagePercentage); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		cfg.SetNotes(req.Notes)
	}

	if err := s.pricingRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	response := ToKaratPricingResponse(cfg)
	return &response, nil
}

// GetByKarat retrieves the pricing row for one karat grade
func (s *KaratPricingService) GetByKarat(ctx context.Context, tenantID uuid.UUID, karat string) (*KaratPricingResponse, error) {
	cfg, err := s.pricingRepo.FindByKarat(ctx, tenantID, pricing.Karat(karat))
	if err != nil {
		return nil, err
	}
	response := ToKaratPricingResponse(cfg)
	return &response, nil
}

// List retrieves all pricing rows for the tenant
func (s *KaratPricingService) List(ctx context.Context, tenantID uuid.UUID) ([]KaratPricingResponse, error) {
	configs, err := s.pricingRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]KaratPricingResponse, 0, len(configs))
	for idx := range configs {
		responses = append(responses, ToKaratPricingResponse(&configs[idx]))
	}
	return responses, nil
}

// Delete removes the pricing row for a karat grade
func (s *KaratPricingService) Delete(ctx context.Context, tenantID uuid.UUID, karat string) error {
	return s.pricingRepo.Delete(ctx, tenantID, pricing.Karat(karat))
}

// CalculateQuote produces an itemized price quote. When the karat has a
// stored pricing row it is used directly; otherwise the rate is derived
// from the current gold-rate board.
func (s *KaratPricingService) CalculateQuote(ctx context.Context, tenantID uuid.UUID, req CalculateQuoteRequest) (*QuoteResponse, error) {
	domainReq := pricing.QuoteRequest{
		Karat:            pricing.Karat(req.Karat),
		WeightGrams:      req.WeightGrams,
		MakingChargeType: pricing.MakingChargeType(req.MakingChargeType),
		IncludeGST:       req.IncludeGST,
		StoneValue:       decimal.Zero,
	}
	if req.MakingChargeType == "" {
		domainReq.MakingChargeType = pricing.MakingChargePerGram
	}
	if req.StoneValue != nil {
		domainReq.StoneValue = *req.StoneValue
	}
	if req.DiscountPercentage != nil {
		domainReq.DiscountPercentage = *req.DiscountPercentage
	}

	var quote *pricing.Quote
	cfg, err := s.pricingRepo.FindByKarat(ctx, tenantID, domainReq.Karat)
	if err == nil && cfg != nil {
		quote, err = s.calculator.Calculate(domainReq, cfg)
		if err != nil {
			return nil, err
		}
	} else {
		rates, rateErr := s.rateRepo.FindLatest(ctx, tenantID)
		if rateErr != nil {
			return nil, rateErr
		}
		quote, err = s.calculator.CalculateWithContext(domainReq, pricing.NewPricingContext(rates))
		if err != nil {
			return nil, err
		}
	}

	rounded := quote.Rounded()
	return &QuoteResponse{
		Karat:             rounded.Karat.String(),
		WeightGrams:       rounded.WeightGrams,
		RatePerGram:       rounded.GoldRatePerGram,
		GoldValue:         rounded.GoldValue,
		MakingCharge:      rounded.MakingCharges,
		WastageCharge:     rounded.WastageCharges,
		StoneValue:        rounded.StoneValue,
		Subtotal:          rounded.Subtotal,
		DiscountAmount:    rounded.DiscountAmount,
		TaxableAmount:     rounded.TaxableAmount,
		CGST:              rounded.CGST,
		SGST:              rounded.SGST,
		TotalGST:          rounded.TotalGST,
		GrandTotal:        rounded.GrandTotal,
		GrandTotalDisplay: valueobject.NewMoneyINR(rounded.GrandTotal).DisplayINR(),
	}, nil
}

// repricePageSize bounds how many products one reprice batch loads
const repricePageSize = 200

// ApplyRatesToProducts recomputes the GST-inclusive selling price of
// every weighed product from its karat's current pricing configuration.
// Products without a net weight or without a pricing row for their
// karat are left untouched and counted as skipped.
func (s *KaratPricingService) ApplyRatesToProducts(ctx context.Context, tenantID uuid.UUID) (*RepriceProductsResponse, error) {
	configs := make(map[pricing.Karat]*pricing.KaratPricing)
	for _, karat := range pricing.AllKarats() {
		cfg, err := s.pricingRepo.FindByKarat(ctx, tenantID, karat)
		if err == nil && cfg != nil {
			configs[karat] = cfg
		}
	}
	if len(configs) == 0 {
		return nil, shared.NewValidationError("No karat pricing configured; initialize pricing before repricing")
	}

	response := &RepriceProductsResponse{}
	for page := 1; ; page++ {
		products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, shared.Filter{
			Page:     page,
			PageSize: repricePageSize,
		})
		if err != nil {
			return nil, err
		}
		response.Total = total

		for idx := range products {
			product := &products[idx]
			cfg, ok := configs[product.Karat]
			if !ok || !product.NetWeightGrams.IsPositive() {
				response.Skipped++
				continue
			}

			quote, err := s.calculator.Calculate(pricing.QuoteRequest{
				Karat:            product.Karat,
				WeightGrams:      product.NetWeightGrams,
				MakingChargeType: pricing.MakingChargePerGram,
				IncludeGST:       true,
				StoneValue:       product.StoneValue,
			}, cfg)
			if err != nil {
				s.logger.Warn("skipping product during reprice",
					zap.String("tenant_id", tenantID.String()),
					zap.String("sku", product.SKU),
					zap.Error(err))
				response.Skipped++
				continue
			}

			newPrice := quote.Rounded().GrandTotal
			if product.SellingPrice.Equal(newPrice) {
				response.Unchanged++
				continue
			}
			if err := product.SetSellingPrice(newPrice); err != nil {
				response.Skipped++
				continue
			}
			if err := s.productRepo.Save(ctx, product); err != nil {
				return nil, err
			}
			response.Updated++
		}

		if len(products) < repricePageSize {
			break
		}
	}

	s.logger.Info("applied karat rates to products",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("updated", response.Updated),
		zap.Int("unchanged", response.Unchanged),
		zap.Int("skipped", response.Skipped))
	return response, nil
}
