package domain

import "time"

// DealReason is the enumerated criterion behind a Deal.
type DealReason string

// Available deal reasons.
const (
	ReasonLowestPrice      DealReason = "lowest_price"
	ReasonBestValue        DealReason = "best_value"
	ReasonPromotionalOffer DealReason = "promotional_offer"
)

// Deal is an explainable highlight picked from the merged offers.
type Deal struct {
	Category        OfferKind       `json:"category"`
	Offer           NormalizedOffer `json:"offer"`
	Reason          DealReason      `json:"reason"`
	Explanation     string          `json:"explanation"`
	DiscountPercent *int            `json:"discountPercent,omitempty"`
}

// SearchMetadata contains information about how a search was executed.
type SearchMetadata struct {
	// ProvidersQueried lists every provider the fan-out reached
	ProvidersQueried []string `json:"providersQueried"`

	// ProvidersSucceeded lists providers that answered without error
	ProvidersSucceeded []string `json:"providersSucceeded"`

	// ProvidersFailed lists providers that failed, panicked or timed out
	ProvidersFailed []string `json:"providersFailed"`

	// SearchTimeMs is the total aggregation duration in milliseconds
	SearchTimeMs int64 `json:"searchTimeMs"`

	// CacheHit indicates whether the results came from cache
	CacheHit bool `json:"cacheHit"`

	// Fallback indicates the results came from fallback providers
	Fallback bool `json:"fallback"`
}

// AggregatedResults is the immutable snapshot returned by a search.
type AggregatedResults struct {
	Flights        []NormalizedOffer `json:"flights"`
	Lodgings       []NormalizedOffer `json:"lodgings"`
	Transport      []NormalizedOffer `json:"transport"`
	Experiences    []NormalizedOffer `json:"experiences"`
	Deals          []Deal            `json:"deals"`
	SourcesQueried []string          `json:"sourcesQueried"`
	GeneratedAt    time.Time         `json:"generatedAt"`
	Metadata       SearchMetadata    `json:"metadata"`
}

// NewAggregatedResults creates empty, non-nil results stamped with generatedAt.
func NewAggregatedResults(generatedAt time.Time) *AggregatedResults {
	return &AggregatedResults{
		Flights:        []NormalizedOffer{},
		Lodgings:       []NormalizedOffer{},
		Transport:      []NormalizedOffer{},
		Experiences:    []NormalizedOffer{},
		Deals:          []Deal{},
		SourcesQueried: []string{},
		GeneratedAt:    generatedAt,
		Metadata: SearchMetadata{
			ProvidersQueried:   []string{},
			ProvidersSucceeded: []string{},
			ProvidersFailed:    []string{},
		},
	}
}

// OffersOf returns the offer list for the given kind.
func (r *AggregatedResults) OffersOf(kind OfferKind) []NormalizedOffer {
	switch kind {
	case KindFlight:
		return r.Flights
	case KindLodging:
		return r.Lodgings
	case KindGroundTransport:
		return r.Transport
	case KindExperience:
		return r.Experiences
	default:
		return nil
	}
}

// SetOffers replaces the offer list for the given kind.
func (r *AggregatedResults) SetOffers(kind OfferKind, offers []NormalizedOffer) {
	if offers == nil {
		offers = []NormalizedOffer{}
	}
	switch kind {
	case KindFlight:
		r.Flights = offers
	case KindLodging:
		r.Lodgings = offers
	case KindGroundTransport:
		r.Transport = offers
	case KindExperience:
		r.Experiences = offers
	}
}

// TotalOffers returns the number of offers across all kinds.
func (r *AggregatedResults) TotalOffers() int {
	return len(r.Flights) + len(r.Lodgings) + len(r.Transport) + len(r.Experiences)
}

// IsEmpty reports whether no provider contributed data.
func (r *AggregatedResults) IsEmpty() bool {
	return len(r.SourcesQueried) == 0
}

// Clone returns a deep copy so cached snapshots cannot be mutated by callers.
func (r *AggregatedResults) Clone() *AggregatedResults {
	if r == nil {
		return nil
	}
	c := *r
	c.Flights = cloneOffers(r.Flights)
	c.Lodgings = cloneOffers(r.Lodgings)
	c.Transport = cloneOffers(r.Transport)
	c.Experiences = cloneOffers(r.Experiences)
	c.Deals = make([]Deal, len(r.Deals))
	for i, d := range r.Deals {
		d.Offer = d.Offer.Clone()
		if d.DiscountPercent != nil {
			v := *d.DiscountPercent
			d.DiscountPercent = &v
		}
		c.Deals[i] = d
	}
	c.SourcesQueried = append([]string{}, r.SourcesQueried...)
	c.Metadata.ProvidersQueried = append([]string{}, r.Metadata.ProvidersQueried...)
	c.Metadata.ProvidersSucceeded = append([]string{}, r.Metadata.ProvidersSucceeded...)
	c.Metadata.ProvidersFailed = append([]string{}, r.Metadata.ProvidersFailed...)
	return &c
}

func cloneOffers(offers []NormalizedOffer) []NormalizedOffer {
	out := make([]NormalizedOffer, len(offers))
	for i, o := range offers {
		out[i] = o.Clone()
	}
	return out
}
