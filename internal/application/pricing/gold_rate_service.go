package pricing

import (
	"context"
	"time"

	"github.com/jewelerp/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// rateBoardTTL bounds staleness when the board is served from cache
const rateBoardTTL = 5 * time.Minute

// RateBoardCache caches the assembled rate board per tenant. A miss
// returns (nil, nil).
type RateBoardCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*GoldRateBoardResponse, error)
	Set(ctx context.Context, tenantID uuid.UUID, board *GoldRateBoardResponse, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// GoldRateService manages the daily gold-rate board
type GoldRateService struct {
	rateRepo pricing.GoldRateRepository
	cache    RateBoardCache
	logger   *zap.Logger
}

// NewGoldRateService creates a new GoldRateService
func NewGoldRateService(rateRepo pricing.GoldRateRepository, cache RateBoardCache, logger *zap.Logger) *GoldRateService {
	return &GoldRateService{
		rateRepo: rateRepo,
		cache:    cache,
		logger:   logger,
	}
}

// Publish records a new rate for a karat grade, deactivating the
// previous one, and invalidates the cached board.
func (s *GoldRateService) Publish(ctx context.Context, tenantID uuid.UUID, req PublishGoldRateRequest) (*GoldRateResponse, error) {
	rateDate := time.Now()
	if req.RateDate != nil {
		rateDate = *req.RateDate
	}

	rate, err := pricing.NewGoldRate(tenantID, pricing.Karat(req.Karat), req.RatePerGram, rateDate)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		rate.Notes = req.Notes
	}

	previous, err := s.rateRepo.FindLatestByKarat(ctx, tenantID, rate.Karat)
	if err != nil {
		previous = nil // first publication for this karat
	}

	if err := s.rateRepo.DeactivatePrevious(ctx, tenantID, rate.Karat); err != nil {
		return nil, err
	}
	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, tenantID); err != nil {
			s.logger.Warn("failed to invalidate rate board cache", zap.Error(err))
		}
	}

	s.logger.Info("published gold rate",
		zap.String("tenant_id", tenantID.String()),
		zap.String("karat", req.Karat),
		zap.String("rate", req.RatePerGram.String()))

	return &GoldRateResponse{
		Karat:            rate.Karat.String(),
		RatePerGram:      rate.RatePerGram,
		RateDate:         rate.RateDate,
		ChangePercentage: rate.ChangeFrom(previous),
	}, nil
}

// Board assembles the rate board for every karat grade. Grades without
// a published rate are derived from the 24K rate by purity. The board
// is cached briefly because the shop front polls it.
func (s *GoldRateService) Board(ctx context.Context, tenantID uuid.UUID) (*GoldRateBoardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, tenantID); err == nil && cached != nil {
			cached.FromCache = true
			return cached, nil
		}
	}

	latest, err := s.rateRepo.FindLatest(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	pctx := pricing.NewPricingContext(latest)

	published := make(map[pricing.Karat]*pricing.GoldRate, len(latest))
	for idx := range latest {
		if latest[idx].IsActive {
			published[latest[idx].Karat] = &latest[idx]
		}
	}

	board := &GoldRateBoardResponse{
		Rates: make([]GoldRateResponse, 0, len(pricing.AllKarats())),
		AsOf:  time.Now(),
	}
	for _, karat := range pricing.AllKarats() {
		rate, err := pctx.RateFor(karat)
		if err != nil {
			continue // no published 24K rate to derive from
		}
		row := GoldRateResponse{
			Karat:            karat.String(),
			RatePerGram:      rate.Round(2),
			RateDate:         board.AsOf,
			ChangePercentage: decimal.Zero,
			Derived:          true,
		}
		if pub, ok := published[karat]; ok {
			row.RateDate = pub.RateDate
			row.Derived = false
			if history, err := s.rateRepo.FindHistory(ctx, tenantID, karat, 2); err == nil && len(history) > 1 {
				row.ChangePercentage = pub.ChangeFrom(&history[1])
			}
		}
		board.Rates = append(board.Rates, row)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, board, rateBoardTTL); err != nil {
			s.logger.Warn("failed to cache rate board", zap.Error(err))
		}
	}
	return board, nil
}

// History returns the recent rate history for one karat grade
func (s *GoldRateService) History(ctx context.Context, tenantID uuid.UUID, karat string, limit int) ([]GoldRateResponse, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	history, err := s.rateRepo.FindHistory(ctx, tenantID, pricing.Karat(karat), limit)
	if err != nil {
		return nil, err
	}
	responses := make([]GoldRateResponse, 0, len(history))
	for idx := range history {
		row := GoldRateResponse{
			Karat:       history[idx].Karat.String(),
			RatePerGram: history[idx].RatePerGram,
			RateDate:    history[idx].RateDate,
		}
		if idx+1 < len(history) {
			row.ChangePercentage = history[idx].ChangeFrom(&history[idx+1])
		}
		responses = append(responses, row)
	}
	return responses, nil
}
