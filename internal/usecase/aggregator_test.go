package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/travel-search/offer-aggregation-engine/internal/cache"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/timeutil"
	"github.com/travel-search/offer-aggregation-engine/internal/normalizer"
)

// lodgingRecord creates a raw lodging record as a provider would return it.
func lodgingRecord(source, name string, price float64) domain.RawRecord {
	return domain.RawRecord{
		Source: source,
		Kind:   domain.KindLodging,
		Fields: map[string]any{
			"name":            name,
			"location":        "Bangkok",
			"price_per_night": price,
			"currency":        "USD",
			"rating":          4.5,
			"review_count":    120,
		},
	}
}

// flightRecord creates a raw one-segment flight record.
func flightRecord(source string, price float64, departure string) domain.RawRecord {
	return domain.RawRecord{
		Source: source,
		Kind:   domain.KindFlight,
		Fields: map[string]any{
			"origin":         "ATH",
			"destination":    "BKK",
			"departure_time": departure,
			"total_price":    price,
			"currency":       "USD",
		},
	}
}

func lodgingQuery(destination string) domain.Query {
	return domain.Query{
		Kind:        domain.QueryLodging,
		Destination: destination,
		DateOut:     "2026-03-10",
		DateReturn:  "2026-03-11",
		PartySize:   2,
	}
}

// setupMockProvider creates a mock provider with standard behavior.
func setupMockProvider(ctrl *gomock.Controller, name string, kind domain.OfferKind, records []domain.RawRecord, err error) *domain.MockOfferProvider {
	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return(name).AnyTimes()
	mock.EXPECT().Kind().Return(kind).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).Return(records, err).AnyTimes()
	return mock
}

// setupMockProviderWithDelay creates a mock provider that honours cancellation.
func setupMockProviderWithDelay(ctrl *gomock.Controller, name string, kind domain.OfferKind, records []domain.RawRecord, delay time.Duration) *domain.MockOfferProvider {
	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return(name).AnyTimes()
	mock.EXPECT().Kind().Return(kind).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
			select {
			case <-time.After(delay):
				return records, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	).AnyTimes()
	return mock
}

func registryOf(providers ...domain.OfferProvider) *domain.ProviderRegistry {
	r := domain.NewProviderRegistry()
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

func TestNewOfferSearchUseCase(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		want   Config
	}{
		{name: "nil config uses defaults", config: nil, want: DefaultConfig()},
		{
			name:   "custom config",
			config: &Config{GlobalTimeout: 10 * time.Second, ProviderTimeout: 3 * time.Second},
			want:   Config{GlobalTimeout: 10 * time.Second, ProviderTimeout: 3 * time.Second},
		},
		{
			name:   "non-positive values fall back",
			config: &Config{GlobalTimeout: -1},
			want:   DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewOfferSearchUseCase(nil, tt.config).(*offerSearchUseCase)
			assert.Equal(t, tt.want, uc.cfg)
			assert.NotNil(t, uc.registry)
			assert.NotNil(t, uc.normalizer)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.GlobalTimeout)
	assert.Equal(t, 2*time.Second, cfg.ProviderTimeout)
}

func TestSearch_LodgingDedupScenario(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Grand Palace Hotel", 150)}, nil),
		setupMockProvider(ctrl, "nestly", domain.KindLodging, []domain.RawRecord{lodgingRecord("nestly", "Grand Palace Hotel", 120)}, nil),
		setupMockProvider(ctrl, "roomly", domain.KindLodging, []domain.RawRecord{lodgingRecord("roomly", "grand palace hotel", 100)}, nil),
	), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	require.Len(t, results.Lodgings, 1)
	rep := results.Lodgings[0]
	assert.Equal(t, 100.0, rep.Price.Amount)
	assert.Equal(t, "roomly", rep.Source)
	require.NotNil(t, rep.DiscountPercent)
	assert.Equal(t, 33, *rep.DiscountPercent)
	assert.Equal(t, []string{"nestly", "roomly", "staywell"}, rep.ConfirmedBy)
	assert.Equal(t, []string{"nestly", "roomly", "staywell"}, results.SourcesQueried)

	require.NotEmpty(t, results.Deals)
	assert.Equal(t, domain.ReasonLowestPrice, results.Deals[0].Reason)
	assert.Equal(t, 33, *results.Deals[0].DiscountPercent)
	assert.Empty(t, results.Flights)
}

func TestSearch_FlightFingerprintScenario(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "skyhub", domain.KindFlight, []domain.RawRecord{
			flightRecord("skyhub", 500, "2026-03-10T08:00:00Z"),
			flightRecord("skyhub", 430, "2026-03-11T08:00:00Z"),
		}, nil),
		setupMockProvider(ctrl, "jetline", domain.KindFlight, []domain.RawRecord{
			flightRecord("jetline", 480, "2026-03-10T13:30:00Z"),
		}, nil),
	), nil)

	results, err := uc.Search(context.Background(), domain.Query{
		Kind:        domain.QueryFlight,
		Origin:      "ATH",
		Destination: "BKK",
		DateOut:     "2026-03-10",
		PartySize:   1,
	})

	require.NoError(t, err)
	require.Len(t, results.Flights, 2)
	assert.Equal(t, 480.0, results.Flights[0].Price.Amount)
	assert.Equal(t, 4, *results.Flights[0].DiscountPercent)
	assert.Equal(t, 430.0, results.Flights[1].Price.Amount)
	assert.Nil(t, results.Flights[1].DiscountPercent)
}

func TestSearch_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil),
		setupMockProvider(ctrl, "nestly", domain.KindLodging, nil, domain.NewRetryableProviderError("nestly", errors.New("status 503"))),
		setupMockProvider(ctrl, "roomly", domain.KindLodging, nil, errors.New("connection refused")),
	), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.Len(t, results.Lodgings, 1)
	assert.Equal(t, []string{"staywell"}, results.SourcesQueried)
	assert.Equal(t, []string{"staywell", "nestly", "roomly"}, results.Metadata.ProvidersQueried)
	assert.Equal(t, []string{"staywell"}, results.Metadata.ProvidersSucceeded)
	assert.Equal(t, []string{"nestly", "roomly"}, results.Metadata.ProvidersFailed)
}

func TestSearch_AllProvidersFail(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "staywell", domain.KindLodging, nil, errors.New("boom")),
		setupMockProvider(ctrl, "nestly", domain.KindLodging, nil, errors.New("boom")),
	), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.True(t, results.IsEmpty())
	assert.Empty(t, results.Lodgings)
	assert.Len(t, results.Metadata.ProvidersFailed, 2)
}

func TestSearch_Nowhereland(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "skyhub", domain.KindFlight, []domain.RawRecord{}, nil),
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{}, nil),
		setupMockProvider(ctrl, "railgo", domain.KindGroundTransport, nil, nil),
		setupMockProvider(ctrl, "tourly", domain.KindExperience, []domain.RawRecord{}, nil),
	), nil)

	results, err := uc.Search(context.Background(), domain.Query{
		Kind:        domain.QueryAll,
		Origin:      "ATH",
		Destination: "Nowhereland",
		DateOut:     "2026-03-10",
	})

	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Empty(t, results.Flights)
	assert.Empty(t, results.Lodgings)
	assert.Empty(t, results.Transport)
	assert.Empty(t, results.Experiences)
	assert.Empty(t, results.Deals)
	assert.Empty(t, results.SourcesQueried)
	assert.NotNil(t, results.SourcesQueried)
	assert.Len(t, results.Metadata.ProvidersSucceeded, 4)
}

func TestSearch_NoProviders(t *testing.T) {
	uc := NewOfferSearchUseCase(domain.NewProviderRegistry(), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.True(t, results.IsEmpty())
	assert.Empty(t, results.Metadata.ProvidersQueried)
}

func TestSearch_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return("staywell").AnyTimes()
	mock.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	uc := NewOfferSearchUseCase(registryOf(mock), nil)

	tests := []struct {
		name  string
		query domain.Query
		field string
	}{
		{name: "missing destination", query: domain.Query{Kind: domain.QueryLodging, DateOut: "2026-03-10"}, field: "destination"},
		{name: "bad date", query: domain.Query{Destination: "Bangkok", DateOut: "10/03/2026"}, field: "dateOut"},
		{name: "unknown kind", query: domain.Query{Kind: "cruise", Destination: "Bangkok", DateOut: "2026-03-10"}, field: "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := uc.Search(context.Background(), tt.query)

			require.Error(t, err)
			assert.Nil(t, results)
			assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSearch_KindRouting(t *testing.T) {
	ctrl := gomock.NewController(t)

	flights := domain.NewMockOfferProvider(ctrl)
	flights.EXPECT().Name().Return("skyhub").AnyTimes()
	flights.EXPECT().Kind().Return(domain.KindFlight).AnyTimes()
	flights.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	uc := NewOfferSearchUseCase(registryOf(
		flights,
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil),
	), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.Equal(t, []string{"staywell"}, results.Metadata.ProvidersQueried)
}

func TestSearch_ProviderTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProviderWithDelay(ctrl, "fast", domain.KindLodging, []domain.RawRecord{lodgingRecord("fast", "Riverside Inn", 80)}, 5*time.Millisecond),
		setupMockProviderWithDelay(ctrl, "slow", domain.KindLodging, []domain.RawRecord{lodgingRecord("slow", "Maison Bleue", 90)}, time.Second),
	), &Config{GlobalTimeout: time.Second, ProviderTimeout: 50 * time.Millisecond})

	start := time.Now()
	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 500*time.Millisecond)
	assert.Equal(t, []string{"fast"}, results.SourcesQueried)
	assert.Equal(t, []string{"slow"}, results.Metadata.ProvidersFailed)
	assert.Len(t, results.Lodgings, 1)
}

func TestSearch_GlobalTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)

	// Ignores its context entirely.
	stuck := domain.NewMockOfferProvider(ctrl)
	stuck.EXPECT().Name().Return("stuck").AnyTimes()
	stuck.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	stuck.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
			time.Sleep(400 * time.Millisecond)
			return []domain.RawRecord{lodgingRecord("stuck", "Late Hotel", 10)}, nil
		},
	).AnyTimes()

	uc := NewOfferSearchUseCase(registryOf(
		stuck,
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil),
	), &Config{GlobalTimeout: 50 * time.Millisecond, ProviderTimeout: time.Second})

	start := time.Now()
	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 300*time.Millisecond)
	assert.Equal(t, []string{"staywell"}, results.SourcesQueried)
	assert.Equal(t, []string{"stuck"}, results.Metadata.ProvidersFailed)
	assert.Equal(t, []string{"stuck", "staywell"}, results.Metadata.ProvidersQueried)
}

func TestSearch_ProviderPanic(t *testing.T) {
	ctrl := gomock.NewController(t)

	panicky := domain.NewMockOfferProvider(ctrl)
	panicky.EXPECT().Name().Return("panicky").AnyTimes()
	panicky.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	panicky.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
			panic("nil map write")
		},
	).AnyTimes()

	uc := NewOfferSearchUseCase(registryOf(
		panicky,
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil),
	), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.Equal(t, []string{"staywell"}, results.SourcesQueried)
	assert.Equal(t, []string{"panicky"}, results.Metadata.ProvidersFailed)
}

func TestSearch_ContextCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)

	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return("slow").AnyTimes()
	mock.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	uc := NewOfferSearchUseCase(registryOf(mock), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := uc.Search(ctx, lodgingQuery("Bangkok"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestSearch_CallerDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProviderWithDelay(ctrl, "slow", domain.KindLodging, []domain.RawRecord{lodgingRecord("slow", "Riverside Inn", 80)}, 200*time.Millisecond),
	), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	results, err := uc.Search(ctx, lodgingQuery("Bangkok"))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, results)
}

func TestSearch_CancelledCallerDoesNotPoisonCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	var calls atomic.Int32
	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return("staywell").AnyTimes()
	mock.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
			calls.Add(1)
			select {
			case <-time.After(50 * time.Millisecond):
				return []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}).AnyTimes()

	uc := NewOfferSearchUseCase(registryOf(mock), nil, WithCache(cache.New(time.Hour, 4, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(5*time.Millisecond, cancel)

	_, err := uc.Search(ctx, lodgingQuery("Bangkok"))
	require.ErrorIs(t, err, context.Canceled)

	// The next caller joins the still running search or reads its cached outcome.
	fresh, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))
	require.NoError(t, err)
	require.Len(t, fresh.Lodgings, 1)
	assert.Equal(t, []string{"staywell"}, fresh.SourcesQueried)
	assert.Empty(t, fresh.Metadata.ProvidersFailed)

	cached, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))
	require.NoError(t, err)
	assert.True(t, cached.Metadata.CacheHit)
	require.Len(t, cached.Lodgings, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_MergesAcrossCurrencies(t *testing.T) {
	ctrl := gomock.NewController(t)

	euro := lodgingRecord("nestly", "Grand Palace Hotel", 92)
	euro.Fields["currency"] = "EUR"

	rates := normalizer.NewExchangeRates("USD", map[string]float64{"EUR": 0.92})
	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Grand Palace Hotel", 120)}, nil),
		setupMockProvider(ctrl, "nestly", domain.KindLodging, []domain.RawRecord{euro}, nil),
	), nil, WithNormalizer(normalizer.New(normalizer.WithExchangeRates(rates))))

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	require.Len(t, results.Lodgings, 1)
	rep := results.Lodgings[0]
	assert.Equal(t, domain.Price{Amount: 100, Currency: "USD"}, rep.Price)
	assert.Equal(t, "nestly", rep.Source)
	assert.Equal(t, []string{"nestly", "staywell"}, rep.ConfirmedBy)
}

func TestSearch_SourcesQueriedSorted(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil),
		setupMockProvider(ctrl, "lodgio", domain.KindLodging, []domain.RawRecord{lodgingRecord("lodgio", "Maison Bleue", 90)}, nil),
		setupMockProvider(ctrl, "nestly", domain.KindLodging, []domain.RawRecord{lodgingRecord("nestly", "Baixa Suites", 70)}, nil),
	), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.Equal(t, []string{"lodgio", "nestly", "staywell"}, results.SourcesQueried)
	assert.Equal(t, []string{"staywell", "lodgio", "nestly"}, results.Metadata.ProvidersQueried)
}

func TestSearch_UnknownRecordKindSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)

	odd := domain.RawRecord{Source: "staywell", Fields: map[string]any{"kind": "cruise", "price": 10}}
	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{odd, lodgingRecord("staywell", "Riverside Inn", 80)}, nil),
	), nil)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.Len(t, results.Lodgings, 1)
	assert.Equal(t, []string{"staywell"}, results.SourcesQueried)
}

func TestSearch_Budget(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(registryOf(
		setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{
			lodgingRecord("staywell", "Riverside Inn", 80),
			lodgingRecord("staywell", "Grand Palace Hotel", 150),
			lodgingRecord("staywell", "Maison Bleue", 200),
		}, nil),
	), nil)

	budgetMax := 160.0
	q := lodgingQuery("Bangkok")
	q.Budget = &domain.Budget{Max: &budgetMax, Currency: " usd "}

	results, err := uc.Search(context.Background(), q)

	require.NoError(t, err)
	require.Len(t, results.Lodgings, 2)
	assert.Equal(t, "Riverside Inn", results.Lodgings[0].Lodging.Name)
	assert.Equal(t, "Grand Palace Hotel", results.Lodgings[1].Lodging.Name)
	assert.Equal(t, " usd ", q.Budget.Currency)
}

func TestSearch_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := timeutil.NewMockClockFromString("2026-03-01T10:00:00Z")

	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return("staywell").AnyTimes()
	mock.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return([]domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil).
		Times(2)

	c := cache.New(time.Hour, 4, clock)
	uc := NewOfferSearchUseCase(registryOf(mock), nil, WithCache(c), WithClock(clock))

	first, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))
	require.NoError(t, err)
	assert.False(t, first.Metadata.CacheHit)

	second, err := uc.Search(context.Background(), lodgingQuery("  BANGKOK"))
	require.NoError(t, err)
	assert.True(t, second.Metadata.CacheHit)
	assert.Equal(t, first.Lodgings, second.Lodgings)

	// Expired entries trigger a fresh fan-out.
	clock.Advance(time.Hour)
	third, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))
	require.NoError(t, err)
	assert.False(t, third.Metadata.CacheHit)
}

func TestSearch_CoalescesConcurrentSearches(t *testing.T) {
	ctrl := gomock.NewController(t)

	var calls atomic.Int32
	release := make(chan struct{})

	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return("staywell").AnyTimes()
	mock.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
			calls.Add(1)
			<-release
			return []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil
		},
	).AnyTimes()

	uc := NewOfferSearchUseCase(registryOf(mock), nil, WithCache(cache.New(time.Hour, 4, nil)))

	const callers = 5
	var wg sync.WaitGroup
	out := make([]*domain.AggregatedResults, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))
			assert.NoError(t, err)
			out[i] = r
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range out {
		require.NotNil(t, r)
		assert.Len(t, r.Lodgings, 1)
	}
	// Callers get independent copies.
	out[0].Lodgings[0].Price.Amount = 1
	assert.Equal(t, 80.0, out[1].Lodgings[0].Price.Amount)
}

func TestSearch_Fallback(t *testing.T) {
	ctrl := gomock.NewController(t)

	primary := registryOf(setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{}, nil))
	fallback := registryOf(setupMockProvider(ctrl, "aisim", domain.KindLodging, []domain.RawRecord{lodgingRecord("aisim", "Guessed Hotel", 95)}, nil))

	uc := NewOfferSearchUseCase(primary, nil, WithFallback(fallback))

	results, err := uc.Search(context.Background(), lodgingQuery("Nowhereland"))

	require.NoError(t, err)
	assert.True(t, results.Metadata.Fallback)
	assert.Equal(t, []string{"aisim"}, results.SourcesQueried)
	assert.Equal(t, []string{"staywell", "aisim"}, results.Metadata.ProvidersQueried)
	require.Len(t, results.Lodgings, 1)
	assert.Equal(t, "Guessed Hotel", results.Lodgings[0].Lodging.Name)
}

func TestSearch_FallbackSkippedWhenPrimaryHasData(t *testing.T) {
	ctrl := gomock.NewController(t)

	ai := domain.NewMockOfferProvider(ctrl)
	ai.EXPECT().Name().Return("aisim").AnyTimes()
	ai.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	ai.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	uc := NewOfferSearchUseCase(
		registryOf(setupMockProvider(ctrl, "staywell", domain.KindLodging, []domain.RawRecord{lodgingRecord("staywell", "Riverside Inn", 80)}, nil)),
		nil,
		WithFallback(registryOf(ai)),
	)

	results, err := uc.Search(context.Background(), lodgingQuery("Bangkok"))

	require.NoError(t, err)
	assert.False(t, results.Metadata.Fallback)
}

func TestSearch_EmptyFallbackStaysEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := NewOfferSearchUseCase(
		registryOf(setupMockProvider(ctrl, "staywell", domain.KindLodging, nil, nil)),
		nil,
		WithFallback(registryOf(setupMockProvider(ctrl, "aisim", domain.KindLodging, nil, errors.New("no api key")))),
	)

	results, err := uc.Search(context.Background(), lodgingQuery("Nowhereland"))

	require.NoError(t, err)
	assert.True(t, results.IsEmpty())
	assert.False(t, results.Metadata.Fallback)
	assert.Equal(t, []string{"aisim"}, results.Metadata.ProvidersFailed)
}

func TestSearch_VerifyQueryPassedToProvider(t *testing.T) {
	ctrl := gomock.NewController(t)

	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return("staywell").AnyTimes()
	mock.EXPECT().Kind().Return(domain.KindLodging).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
			assert.Equal(t, "Bangkok", q.Destination)
			assert.Equal(t, domain.QueryLodging, q.Kind)
			assert.Equal(t, 2, q.PartySize)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil, nil
		},
	).Times(1)

	uc := NewOfferSearchUseCase(registryOf(mock), nil)
	q := lodgingQuery("  Bangkok ")
	q.Kind = "LODGING"

	_, err := uc.Search(context.Background(), q)
	require.NoError(t, err)
}
