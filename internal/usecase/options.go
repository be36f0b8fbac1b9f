// Package usecase orchestrates an offer search: it fans a query out to every
// matching provider, then normalizes, merges, filters and ranks the results.
package usecase

import (
	"github.com/travel-search/offer-aggregation-engine/internal/cache"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/timeutil"
	"github.com/travel-search/offer-aggregation-engine/internal/normalizer"
)

// Option configures an OfferSearchUseCase.
type Option func(*offerSearchUseCase)

// WithCache enables result caching. Without it every search runs the fan-out.
func WithCache(c *cache.Cache) Option {
	return func(uc *offerSearchUseCase) {
		uc.cache = c
	}
}

// WithFallback sets providers consulted only when no primary provider returned a record.
func WithFallback(registry *domain.ProviderRegistry) Option {
	return func(uc *offerSearchUseCase) {
		uc.fallback = registry
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalizer.Normalizer) Option {
	return func(uc *offerSearchUseCase) {
		if n != nil {
			uc.normalizer = n
		}
	}
}

// WithLogger sets the logger used for provider failures and search summaries.
func WithLogger(l *logger.Logger) Option {
	return func(uc *offerSearchUseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithClock sets the clock used for timestamps and timing.
func WithClock(c timeutil.Clock) Option {
	return func(uc *offerSearchUseCase) {
		if c != nil {
			uc.clock = c
		}
	}
}
