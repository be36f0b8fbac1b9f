package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/travel-search/offer-aggregation-engine/internal/cache"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/timeutil"
	"github.com/travel-search/offer-aggregation-engine/internal/merger"
	"github.com/travel-search/offer-aggregation-engine/internal/normalizer"
	"github.com/travel-search/offer-aggregation-engine/internal/ranker"
)

// Default timeout values.
const (
	DefaultGlobalTimeout   = 5 * time.Second
	DefaultProviderTimeout = 2 * time.Second
)

// OfferSearchUseCase defines the interface for offer search operations.
type OfferSearchUseCase interface {
	// Search validates q, queries every provider registered for its kinds and
	// returns merged, ranked results. It returns a *domain.ValidationError for a
	// bad query and ctx.Err() when the caller gives up first; provider failures
	// yield partial or empty results.
	Search(ctx context.Context, q domain.Query) (*domain.AggregatedResults, error)
}

// Config contains configuration options for the use case.
type Config struct {
	GlobalTimeout   time.Duration
	ProviderTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		GlobalTimeout:   DefaultGlobalTimeout,
		ProviderTimeout: DefaultProviderTimeout,
	}
}

type offerSearchUseCase struct {
	registry   *domain.ProviderRegistry
	fallback   *domain.ProviderRegistry
	cache      *cache.Cache
	normalizer *normalizer.Normalizer
	log        *logger.Logger
	clock      timeutil.Clock
	cfg        Config
	inflight   singleflight.Group
}

// NewOfferSearchUseCase creates an OfferSearchUseCase over the given registry.
// If config is nil, or a timeout in it is not positive, the default is used.
func NewOfferSearchUseCase(registry *domain.ProviderRegistry, config *Config, opts ...Option) OfferSearchUseCase {
	cfg := DefaultConfig()
	if config != nil {
		if config.GlobalTimeout > 0 {
			cfg.GlobalTimeout = config.GlobalTimeout
		}
		if config.ProviderTimeout > 0 {
			cfg.ProviderTimeout = config.ProviderTimeout
		}
	}
	if registry == nil {
		registry = domain.NewProviderRegistry()
	}

	uc := &offerSearchUseCase{
		registry:   registry,
		normalizer: normalizer.New(),
		log:        logger.Nop(),
		clock:      timeutil.RealClock{},
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// providerResult holds the outcome of a single provider call.
type providerResult struct {
	Index    int
	Provider string
	Records  []domain.RawRecord
	Error    error
	Panicked bool
	Duration time.Duration
}

// Search implements OfferSearchUseCase.Search.
func (uc *offerSearchUseCase) Search(ctx context.Context, q domain.Query) (*domain.AggregatedResults, error) {
	if q.Budget != nil {
		b := *q.Budget
		q.Budget = &b
	}
	q.SetDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if cached, ok := uc.cache.Get(q); ok {
			cached.Metadata.CacheHit = true
			uc.log.Debug().Str("query_key", q.CanonicalKey()).Msg("Cache hit")
			return cached, nil
		}
	}

	// The shared run outlives any single caller; fanOut bounds it by GlobalTimeout.
	shared := context.WithoutCancel(ctx)
	ch := uc.inflight.DoChan(q.CanonicalKey(), func() (interface{}, error) {
		return uc.aggregate(shared, q), nil
	})

	select {
	case res := <-ch:
		results := res.Val.(*domain.AggregatedResults)
		if res.Shared {
			results = results.Clone()
		}
		return results, nil
	case <-ctx.Done():
		uc.log.Debug().Err(ctx.Err()).Str("query_key", q.CanonicalKey()).Msg("Caller left before search completed")
		return nil, ctx.Err()
	}
}

// aggregate runs the full pipeline for a validated query.
func (uc *offerSearchUseCase) aggregate(ctx context.Context, q domain.Query) *domain.AggregatedResults {
	start := uc.clock.Now()
	log := uc.log.WithQueryKey(q.CanonicalKey())
	kinds := q.Kinds()

	results := domain.NewAggregatedResults(start)
	uc.assemble(results, uc.fanOut(ctx, uc.registry.ForKinds(kinds...), q), q)

	if results.IsEmpty() && uc.fallback != nil {
		if providers := uc.fallback.ForKinds(kinds...); len(providers) > 0 {
			log.Info().Int("providers", len(providers)).Msg("No provider returned data, trying fallback")
			uc.assemble(results, uc.fanOut(ctx, providers, q), q)
			results.Metadata.Fallback = !results.IsEmpty()
		}
	}

	sort.Strings(results.SourcesQueried)
	results.Metadata.SearchTimeMs = timeutil.Since(uc.clock, start).Milliseconds()

	if uc.cache != nil {
		uc.cache.Put(q, results)
	}

	log.Info().
		Str("destination", q.Destination).
		Str("kind", string(q.Kind)).
		Int("offers", results.TotalOffers()).
		Int("deals", len(results.Deals)).
		Strs("sources", results.SourcesQueried).
		Strs("failed", results.Metadata.ProvidersFailed).
		Int64("duration_ms", results.Metadata.SearchTimeMs).
		Msg("Search completed")

	return results
}

// fanOut queries all providers concurrently and returns one outcome per provider,
// in registration order. Providers still running when the global deadline passes
// are reported as timed out.
func (uc *offerSearchUseCase) fanOut(ctx context.Context, providers []domain.OfferProvider, q domain.Query) []providerResult {
	if len(providers) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.GlobalTimeout)
	defer cancel()

	// Buffered so late providers never block after we stop reading
	resultsChan := make(chan providerResult, len(providers))

	for i, p := range providers {
		go uc.queryProvider(ctx, i, p, q, resultsChan)
	}

	outcomes := make([]providerResult, 0, len(providers))
	settled := make([]bool, len(providers))

gather:
	for len(outcomes) < len(providers) {
		select {
		case r := <-resultsChan:
			settled[r.Index] = true
			outcomes = append(outcomes, r)
		case <-ctx.Done():
			break gather
		}
	}

	for i, p := range providers {
		if !settled[i] {
			outcomes = append(outcomes, providerResult{
				Index:    i,
				Provider: p.Name(),
				Error:    domain.NewProviderTimeoutError(p.Name()),
			})
		}
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Index < outcomes[j].Index
	})
	return outcomes
}

// queryProvider queries a single provider with timeout and panic recovery.
func (uc *offerSearchUseCase) queryProvider(ctx context.Context, index int, provider domain.OfferProvider, q domain.Query, results chan<- providerResult) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.ProviderTimeout)
	defer cancel()

	start := uc.clock.Now()
	name := provider.Name()

	defer func() {
		if r := recover(); r != nil {
			results <- providerResult{
				Index:    index,
				Provider: name,
				Error:    domain.NewProviderError(name, fmt.Errorf("provider panic: %v", r)),
				Panicked: true,
				Duration: timeutil.Since(uc.clock, start),
			}
		}
	}()

	records, err := provider.Search(ctx, q)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		err = domain.NewProviderTimeoutError(name)
	}

	results <- providerResult{
		Index:    index,
		Provider: name,
		Records:  records,
		Error:    err,
		Duration: timeutil.Since(uc.clock, start),
	}
}

// assemble folds provider outcomes into results: normalize, merge per kind,
// apply the budget and rank.
func (uc *offerSearchUseCase) assemble(results *domain.AggregatedResults, outcomes []providerResult, q domain.Query) {
	byKind := make(map[domain.OfferKind][]domain.NormalizedOffer)

	for _, o := range outcomes {
		log := uc.log.WithProvider(o.Provider)
		results.Metadata.ProvidersQueried = append(results.Metadata.ProvidersQueried, o.Provider)

		if o.Error != nil {
			results.Metadata.ProvidersFailed = append(results.Metadata.ProvidersFailed, o.Provider)
			switch {
			case o.Panicked:
				log.Error().Err(o.Error).Msg("Provider panicked")
			case domain.IsProviderTimeout(o.Error):
				log.Warn().Err(o.Error).Dur("duration", o.Duration).Msg("Provider timed out")
			default:
				log.Warn().Err(o.Error).Dur("duration", o.Duration).Msg("Provider failed")
			}
			continue
		}
		results.Metadata.ProvidersSucceeded = append(results.Metadata.ProvidersSucceeded, o.Provider)

		if len(o.Records) == 0 {
			continue
		}
		results.SourcesQueried = append(results.SourcesQueried, o.Provider)

		offers, errs := uc.normalizer.NormalizeBatch(o.Records, q)
		for _, err := range errs {
			log.Debug().Err(err).Msg("Skipping record")
		}
		for _, offer := range offers {
			byKind[offer.Kind] = append(byKind[offer.Kind], offer)
		}
	}

	for _, kind := range q.Kinds() {
		merged := merger.Merge(byKind[kind])
		results.SetOffers(kind, applyBudget(merged, q.Budget))
	}
	results.Deals = ranker.Rank(ranker.FromResults(results))
}

// Ensure offerSearchUseCase implements OfferSearchUseCase at compile time.
var _ OfferSearchUseCase = (*offerSearchUseCase)(nil)
