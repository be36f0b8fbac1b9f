// Package app wires configuration, providers and the aggregation use case
// into a ready-to-serve set of components.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/aisim"
	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/catalog"
	"github.com/travel-search/offer-aggregation-engine/internal/cache"
	"github.com/travel-search/offer-aggregation-engine/internal/config"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
	"github.com/travel-search/offer-aggregation-engine/internal/normalizer"
	"github.com/travel-search/offer-aggregation-engine/internal/usecase"
)

// Components is the assembled application.
type Components struct {
	Providers *domain.ProviderRegistry
	Fallback  *domain.ProviderRegistry
	Cache     *cache.Cache
	UseCase   usecase.OfferSearchUseCase
}

// Build loads the provider catalog named by cfg and assembles the use case.
// Relative fixture paths in the catalog resolve against baseDir.
func Build(cfg *config.Config, baseDir string, log *logger.Logger) (*Components, error) {
	if log == nil {
		log = logger.Nop()
	}

	catalogPath := cfg.Providers.File
	if !filepath.IsAbs(catalogPath) {
		catalogPath = filepath.Join(baseDir, catalogPath)
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load provider catalog: %w", err)
	}

	providers := cat.Registry(baseDir, log)
	resultCache := cache.New(cfg.Cache.TTL, cfg.Cache.Shards, nil)
	norm := normalizer.New(
		normalizer.WithDefaultCurrency(cfg.Providers.DefaultCurrency),
		normalizer.WithExchangeRates(cat.Rates()),
	)

	opts := []usecase.Option{
		usecase.WithCache(resultCache),
		usecase.WithNormalizer(norm),
		usecase.WithLogger(log),
	}

	var fallback *domain.ProviderRegistry
	if cfg.AI.Enabled {
		fallback = aisim.NewRegistry(aisim.Config{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.Timeouts.PerProvider,
		}, domain.AllOfferKinds()...)
		opts = append(opts, usecase.WithFallback(fallback))
		log.Info().Strs("providers", fallback.Names()).Msg("AI fallback enabled")
	}

	uc := usecase.NewOfferSearchUseCase(providers, &usecase.Config{
		GlobalTimeout:   cfg.Timeouts.GlobalSearch,
		ProviderTimeout: cfg.Timeouts.PerProvider,
	}, opts...)

	return &Components{
		Providers: providers,
		Fallback:  fallback,
		Cache:     resultCache,
		UseCase:   uc,
	}, nil
}
