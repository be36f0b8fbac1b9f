// Package httpjson implements an offer provider that queries a supplier's JSON search endpoint.
package httpjson

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/payload"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/retry"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Config describes one HTTP supplier.
type Config struct {
	Name    string
	Kind    domain.OfferKind
	URL     string
	APIKey  string
	Timeout time.Duration
	Retry   retry.Config
}

// Adapter queries a supplier endpoint with GET and query parameters.
type Adapter struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) {
		if c != nil {
			a.client = c
		}
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l.WithProvider(a.cfg.Name)
		}
	}
}

// NewAdapter creates an HTTP adapter. A zero Retry config uses retry.ProviderConfig.
func NewAdapter(cfg Config, opts ...Option) *Adapter {
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.ProviderConfig
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	a := &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return a.cfg.Name
}

// Kind returns the offer kind this provider serves.
func (a *Adapter) Kind() domain.OfferKind {
	return a.cfg.Kind
}

// Search calls the endpoint, retrying rate limits, server errors and transport failures.
func (a *Adapter) Search(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
	cfg := a.cfg.Retry.
		WithRetryIf(domain.IsRetryable).
		WithOnRetry(func(attempt int, err error, wait time.Duration) {
			a.log.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Retrying provider call")
		})

	records, err := retry.DoWithResult(ctx, func() ([]domain.RawRecord, error) {
		return a.fetch(ctx, q)
	}, cfg)
	if err != nil {
		var providerErr *domain.ProviderError
		if errors.As(err, &providerErr) {
			return nil, err
		}
		return nil, domain.NewProviderError(a.cfg.Name, err)
	}
	return records, nil
}

func (a *Adapter) fetch(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
	endpoint, err := a.requestURL(q)
	if err != nil {
		return nil, domain.NewProviderError(a.cfg.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewProviderError(a.cfg.Name, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", a.cfg.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.NewProviderError(a.cfg.Name, ctx.Err())
		}
		return nil, domain.NewRetryableProviderError(a.cfg.Name, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewRetryableProviderError(a.cfg.Name, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode == http.StatusNotFound {
		return []domain.RawRecord{}, nil
	}
	if err := statusError(a.cfg.Name, resp.StatusCode); err != nil {
		return nil, err
	}

	items, err := payload.Decode(body)
	if err != nil {
		return nil, domain.NewProviderError(a.cfg.Name, err)
	}
	return payload.ToRecords(a.cfg.Name, a.cfg.Kind, items, time.Now()), nil
}

// statusError maps HTTP status codes to provider errors.
func statusError(provider string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return domain.NewRetryableProviderError(provider, fmt.Errorf("rate limited (status %d)", status))
	case status >= 500:
		return domain.NewProviderUnavailableError(provider, status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewProviderError(provider, fmt.Errorf("authentication failed (status %d)", status))
	default:
		return domain.NewProviderError(provider, fmt.Errorf("unexpected status %d", status))
	}
}

func (a *Adapter) requestURL(q domain.Query) (string, error) {
	u, err := url.Parse(a.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid provider url: %w", err)
	}

	params := u.Query()
	params.Set("kind", string(a.cfg.Kind))
	params.Set("destination", q.Destination)
	params.Set("date_out", q.DateOut)
	params.Set("party_size", strconv.Itoa(q.PartySize))
	if q.Origin != "" {
		params.Set("origin", q.Origin)
	}
	if q.DateReturn != "" {
		params.Set("date_return", q.DateReturn)
	}
	if c := q.Currency(); c != "" {
		params.Set("currency", c)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Ensure Adapter implements OfferProvider at compile time.
var _ domain.OfferProvider = (*Adapter)(nil)
