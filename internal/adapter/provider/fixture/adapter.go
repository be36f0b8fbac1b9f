// Package fixture implements an offer provider backed by a JSON file on disk.
// It stands in for a real supplier API during development and tests.
package fixture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/payload"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// Adapter serves offers from a JSON fixture file.
type Adapter struct {
	name  string
	kind  domain.OfferKind
	path  string
	delay time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDelay simulates network latency before every response.
func WithDelay(d time.Duration) Option {
	return func(a *Adapter) {
		a.delay = d
	}
}

// NewAdapter creates a fixture adapter named name serving offers of the given kind from path.
func NewAdapter(name string, kind domain.OfferKind, path string, opts ...Option) *Adapter {
	a := &Adapter{name: name, kind: kind, path: path}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return a.name
}

// Kind returns the offer kind this provider serves.
func (a *Adapter) Kind() domain.OfferKind {
	return a.kind
}

// Search reads the fixture and returns the records relevant to the query destination.
func (a *Adapter) Search(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewProviderError(a.name, err)
	}

	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, domain.NewProviderError(a.name, ctx.Err())
		}
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, domain.NewRetryableProviderError(a.name, fmt.Errorf("failed to read fixture: %w", err))
	}

	items, err := payload.Decode(data)
	if err != nil {
		return nil, domain.NewProviderError(a.name, err)
	}

	relevant := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if payload.MatchesDestination(item, q.Destination) {
			relevant = append(relevant, item)
		}
	}

	return payload.ToRecords(a.name, a.kind, relevant, time.Now()), nil
}

// Ensure Adapter implements OfferProvider at compile time.
var _ domain.OfferProvider = (*Adapter)(nil)
