// Package catalog loads the YAML provider catalog and turns it into a provider
// registry and an exchange rate table.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/fixture"
	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/httpjson"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
	"github.com/travel-search/offer-aggregation-engine/internal/normalizer"
)

// Provider types understood by the catalog.
const (
	TypeFixture = "fixture"
	TypeHTTP    = "http"
)

// Catalog validation errors.
var (
	ErrMissingName     = errors.New("provider name is required")
	ErrDuplicateName   = errors.New("provider name must be unique")
	ErrUnknownKind     = errors.New("provider kind must be one of: flight, lodging, ground_transport, experience")
	ErrUnknownType     = errors.New("provider type must be one of: fixture, http")
	ErrMissingPath     = errors.New("fixture provider requires path")
	ErrMissingURL      = errors.New("http provider requires url")
	ErrNegativeDelay   = errors.New("provider delay must be non-negative")
	ErrInvalidRate     = errors.New("exchange rates must be positive")
	ErrMissingRateBase = errors.New("exchange_rates.base is required when rates are set")
)

// Catalog is the parsed provider catalog.
type Catalog struct {
	Providers     []ProviderConfig `yaml:"providers"`
	ExchangeRates RatesConfig      `yaml:"exchange_rates"`
}

// ProviderConfig describes one provider entry.
type ProviderConfig struct {
	Name      string        `yaml:"name"`
	Kind      string        `yaml:"kind"`
	Type      string        `yaml:"type"`
	Path      string        `yaml:"path"`
	URL       string        `yaml:"url"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Delay     time.Duration `yaml:"delay"`
	Timeout   time.Duration `yaml:"timeout"`
	Enabled   *bool         `yaml:"enabled"`
}

// IsEnabled reports whether the provider is enabled. Providers are enabled unless
// the entry says otherwise.
func (p ProviderConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// RatesConfig holds units of each currency per one unit of Base.
type RatesConfig struct {
	Base  string             `yaml:"base"`
	Rates map[string]float64 `yaml:"rates"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse provider catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("provider catalog validation failed: %w", err)
	}
	return &c, nil
}

// Validate checks every provider entry and the rate table.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("%w: providers[%d]", ErrMissingName, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		seen[name] = true

		if _, ok := domain.ParseOfferKind(p.Kind); !ok {
			return fmt.Errorf("%w: %s has kind %q", ErrUnknownKind, name, p.Kind)
		}
		if p.Delay < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeDelay, name)
		}

		switch p.providerType() {
		case TypeFixture:
			if p.Path == "" {
				return fmt.Errorf("%w: %s", ErrMissingPath, name)
			}
		case TypeHTTP:
			if p.URL == "" {
				return fmt.Errorf("%w: %s", ErrMissingURL, name)
			}
		default:
			return fmt.Errorf("%w: %s has type %q", ErrUnknownType, name, p.Type)
		}
	}

	if len(c.ExchangeRates.Rates) > 0 && strings.TrimSpace(c.ExchangeRates.Base) == "" {
		return ErrMissingRateBase
	}
	for code, rate := range c.ExchangeRates.Rates {
		if rate <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidRate, code)
		}
	}
	return nil
}

// Registry builds the enabled providers in catalog order. Relative fixture paths
// are resolved against baseDir.
func (c *Catalog) Registry(baseDir string, log *logger.Logger) *domain.ProviderRegistry {
	if log == nil {
		log = logger.Nop()
	}

	registry := domain.NewProviderRegistry()
	for _, p := range c.Providers {
		if !p.IsEnabled() {
			log.Debug().Str("provider", p.Name).Msg("Provider disabled in catalog")
			continue
		}
		kind, _ := domain.ParseOfferKind(p.Kind)

		switch p.providerType() {
		case TypeFixture:
			path := p.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			registry.Register(fixture.NewAdapter(p.Name, kind, path, fixture.WithDelay(p.Delay)))
		case TypeHTTP:
			cfg := httpjson.Config{Name: p.Name, Kind: kind, URL: p.URL, Timeout: p.Timeout}
			if p.APIKeyEnv != "" {
				cfg.APIKey = os.Getenv(p.APIKeyEnv)
			}
			registry.Register(httpjson.NewAdapter(cfg, httpjson.WithLogger(log)))
		}
	}

	log.Info().Strs("providers", registry.Names()).Msg("Provider registry built")
	return registry
}

// Rates returns the exchange rate table, or nil when the catalog has none.
func (c *Catalog) Rates() *normalizer.ExchangeRates {
	if len(c.ExchangeRates.Rates) == 0 {
		return nil
	}
	return normalizer.NewExchangeRates(c.ExchangeRates.Base, c.ExchangeRates.Rates)
}

func (p ProviderConfig) providerType() string {
	t := strings.ToLower(strings.TrimSpace(p.Type))
	if t == "" {
		return TypeFixture
	}
	return t
}
