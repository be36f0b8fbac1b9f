// Package mock provides test doubles for the offer aggregation system.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, panics, specific payloads).
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// Provider is a configurable implementation of domain.OfferProvider.
type Provider struct {
	name      string
	kind      domain.OfferKind
	items     []map[string]any
	err       error
	panicMsg  string
	delay     time.Duration
	callCount int
	lastQuery domain.Query
	mu        sync.Mutex
}

// NewProvider creates a provider with the given name and kind that returns no records.
func NewProvider(name string, kind domain.OfferKind) *Provider {
	return &Provider{name: name, kind: kind}
}

// WithItems configures the raw payload items the provider returns.
func (p *Provider) WithItems(items []map[string]any) *Provider {
	p.items = items
	return p
}

// WithError configures the provider to fail with err.
func (p *Provider) WithError(err error) *Provider {
	p.err = err
	return p
}

// WithPanic configures the provider to panic with msg.
func (p *Provider) WithPanic(msg string) *Provider {
	p.panicMsg = msg
	return p
}

// WithDelay configures the provider to wait d before responding.
func (p *Provider) WithDelay(d time.Duration) *Provider {
	p.delay = d
	return p
}

// Name returns the provider's unique identifier.
func (p *Provider) Name() string {
	return p.name
}

// Kind returns the offer kind the provider serves.
func (p *Provider) Kind() domain.OfferKind {
	return p.kind
}

// Search implements domain.OfferProvider.
func (p *Provider) Search(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
	p.mu.Lock()
	p.callCount++
	p.lastQuery = q
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	if p.err != nil {
		return nil, domain.NewProviderError(p.name, p.err)
	}

	now := time.Now()
	records := make([]domain.RawRecord, len(p.items))
	for i, item := range p.items {
		fields := make(map[string]any, len(item))
		for k, v := range item {
			fields[k] = v
		}
		records[i] = domain.RawRecord{
			Source:     p.name,
			Kind:       p.kind,
			Fields:     fields,
			ReceivedAt: now,
		}
	}
	return records, nil
}

// CallCount returns the number of times Search was called.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// LastQuery returns the query of the most recent Search call.
func (p *Provider) LastQuery() domain.Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastQuery
}

// Reset resets the call count to zero.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCount = 0
}

var _ domain.OfferProvider = (*Provider)(nil)

// Registry builds a registry holding the given providers.
func Registry(providers ...domain.OfferProvider) *domain.ProviderRegistry {
	r := domain.NewProviderRegistry()
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// SampleLodgings returns count lodging payload items in Bangkok. Names are
// unique per provider so they never merge across providers.
func SampleLodgings(provider string, count int) []map[string]any {
	items := make([]map[string]any, count)
	for i := 0; i < count; i++ {
		items[i] = Lodging(fmt.Sprintf("%s Residence %d", strings.ToUpper(provider[:1])+provider[1:], i+1), 100+float64(i*10))
	}
	return items
}

// Lodging returns one lodging payload item in Bangkok priced per night in USD.
func Lodging(name string, price float64) map[string]any {
	return map[string]any{
		"id":              strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		"hotel_name":      name,
		"address":         "Sukhumvit Rd, Bangkok",
		"price_per_night": price,
		"currency":        "USD",
		"rating":          8.2,
		"review_count":    320,
		"amenities":       []any{"wifi", "pool"},
	}
}

// Flight returns one direct flight payload item departing on date.
func Flight(origin, destination, date string, price float64) map[string]any {
	return map[string]any{
		"id":             origin + "-" + destination + "-" + date,
		"origin":         origin,
		"destination":    destination,
		"departure_time": date + "T08:00:00Z",
		"arrival_time":   date + "T19:30:00Z",
		"airline":        "Test Air",
		"flight_number":  "TA100",
		"price":          price,
		"currency":       "USD",
	}
}
