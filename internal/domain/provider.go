package domain

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=domain

import (
	"context"
	"sync"
)

// OfferProvider is the contract every provider adapter implements.
// Search returns an empty slice, not an error, when the provider has nothing for the query.
// Transport, auth and rate-limit failures are reported as *ProviderError.
type OfferProvider interface {
	// Name returns the unique provider name, e.g. "skyhub".
	Name() string

	// Kind returns the offer kind the provider serves.
	Kind() OfferKind

	// Search queries the provider and returns its raw records.
	Search(ctx context.Context, q Query) ([]RawRecord, error)
}

// ProviderRegistry holds providers in registration order.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers []OfferProvider
	byName    map[string]OfferProvider
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make([]OfferProvider, 0),
		byName:    make(map[string]OfferProvider),
	}
}

// Register adds a provider. A provider with an already registered name replaces the old one
// in place. Nil providers are ignored.
func (r *ProviderRegistry) Register(p OfferProvider) {
	if p == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.byName[name]; exists {
		for i, existing := range r.providers {
			if existing.Name() == name {
				r.providers[i] = p
				break
			}
		}
	} else {
		r.providers = append(r.providers, p)
	}
	r.byName[name] = p
}

// Get returns the provider with the given name, or nil.
func (r *ProviderRegistry) Get(name string) OfferProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// GetAll returns all providers in registration order.
func (r *ProviderRegistry) GetAll() []OfferProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]OfferProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ForKind returns the providers serving kind, in registration order.
func (r *ProviderRegistry) ForKind(kind OfferKind) []OfferProvider {
	return r.ForKinds(kind)
}

// ForKinds returns the providers serving any of kinds, in registration order.
func (r *ProviderRegistry) ForKinds(kinds ...OfferKind) []OfferProvider {
	want := make(map[OfferKind]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]OfferProvider, 0, len(r.providers))
	for _, p := range r.providers {
		if _, ok := want[p.Kind()]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the provider names in registration order.
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Len returns the number of registered providers.
func (r *ProviderRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
