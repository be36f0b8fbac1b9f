// Package aisim implements a fallback offer provider that asks a language model for
// best-effort offer estimates through the Anthropic messages API.
package aisim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/payload"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// Defaults for the messages API.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 1500
)

// ErrNoAPIKey is returned by Search when the adapter has no API key.
var ErrNoAPIKey = errors.New("anthropic api key not configured")

// Config configures the simulated provider.
type Config struct {
	Name      string
	Kind      domain.OfferKind
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// Adapter is an OfferProvider whose records are generated by a language model.
type Adapter struct {
	cfg    Config
	client anthropic.Client
}

// NewAdapter creates a simulated provider, filling unset config fields with defaults.
func NewAdapter(cfg Config) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "aisim-" + string(cfg.Kind)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	// The aggregator owns timeouts and a fallback call gets one attempt.
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &Adapter{
		cfg:    cfg,
		client: client,
	}
}

// NewRegistry registers one simulated provider per kind, all sharing cfg.
func NewRegistry(cfg Config, kinds ...domain.OfferKind) *domain.ProviderRegistry {
	registry := domain.NewProviderRegistry()
	for _, kind := range kinds {
		c := cfg
		c.Kind = kind
		c.Name = ""
		registry.Register(NewAdapter(c))
	}
	return registry
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return a.cfg.Name
}

// Kind returns the offer kind this provider serves.
func (a *Adapter) Kind() domain.OfferKind {
	return a.cfg.Kind
}

// Search asks the model for plausible offers matching q. Every record is flagged
// with "simulated": true.
func (a *Adapter) Search(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
	if a.cfg.APIKey == "" {
		return nil, domain.NewProviderError(a.cfg.Name, ErrNoAPIKey)
	}

	text, err := a.complete(ctx, systemPrompt(a.cfg.Kind), userPrompt(a.cfg.Kind, q))
	if err != nil {
		return nil, err
	}

	items, err := decodeOffers(text)
	if err != nil {
		return nil, domain.NewProviderError(a.cfg.Name, err)
	}
	for _, item := range items {
		item["simulated"] = true
	}
	return payload.ToRecords(a.cfg.Name, a.cfg.Kind, items, time.Now()), nil
}

func (a *Adapter) complete(ctx context.Context, system, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(a.cfg.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", a.mapError(ctx, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", domain.NewProviderError(a.cfg.Name, errors.New("empty response from model"))
	}
	return text.String(), nil
}

// mapError turns SDK failures into provider errors. Rate limits, overload and
// server errors are retryable; other API errors are not.
func (a *Adapter) mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return domain.NewProviderError(a.cfg.Name, ctx.Err())
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return domain.NewRetryableProviderError(a.cfg.Name, fmt.Errorf("request failed: %w", err))
	}

	switch status := apiErr.StatusCode; {
	case status == http.StatusTooManyRequests:
		return domain.NewRetryableProviderError(a.cfg.Name, fmt.Errorf("rate limited (status %d)", status))
	case status >= 500:
		return domain.NewProviderUnavailableError(a.cfg.Name, status)
	default:
		return domain.NewProviderError(a.cfg.Name, fmt.Errorf("api returned status %d: %w", status, err))
	}
}

// decodeOffers pulls the first JSON array out of free-form model output.
func decodeOffers(text string) ([]map[string]any, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, errors.New("model output contains no JSON array")
	}
	return payload.Decode([]byte(text[start : end+1]))
}
