package http

// SearchResponseDTO is the data transfer object for search responses.
// @Description Merged offers per kind, highlighted deals and execution metadata
type SearchResponseDTO struct {
	Query          QueryDTO    `json:"query"`
	Flights        []OfferDTO  `json:"flights"`
	Lodgings       []OfferDTO  `json:"lodgings"`
	Transport      []OfferDTO  `json:"transport"`
	Experiences    []OfferDTO  `json:"experiences"`
	Deals          []DealDTO   `json:"deals"`
	SourcesQueried []string    `json:"sources_queried" example:"skyhub,staywell"`
	GeneratedAt    string      `json:"generated_at" example:"2026-03-01T10:00:00+00:00"`
	Metadata       MetadataDTO `json:"metadata"`
}

// QueryDTO echoes the normalized query.
type QueryDTO struct {
	Kind        string `json:"kind" example:"all"`
	Origin      string `json:"origin,omitempty" example:"ATH"`
	Destination string `json:"destination" example:"Bangkok"`
	DateOut     string `json:"date_out" example:"2026-03-10"`
	DateReturn  string `json:"date_return,omitempty" example:"2026-03-13"`
	PartySize   int    `json:"party_size" example:"2"`
}

// MetadataDTO contains metadata about the search execution.
type MetadataDTO struct {
	TotalResults       int      `json:"total_results" example:"12"`
	ProvidersQueried   []string `json:"providers_queried" example:"skyhub,jetline,staywell"`
	ProvidersSucceeded []string `json:"providers_succeeded" example:"skyhub,staywell"`
	ProvidersFailed    []string `json:"providers_failed" example:"jetline"`
	SearchTimeMs       int64    `json:"search_time_ms" example:"312"`
	CacheHit           bool     `json:"cache_hit" example:"false"`
	Fallback           bool     `json:"fallback" example:"false"`
}

// OfferDTO is one merged offer. Exactly one of Flight, Lodging or Transport is set.
type OfferDTO struct {
	ID              string        `json:"id" example:"staywell-sw-bkk-1001"`
	Kind            string        `json:"kind" example:"lodging"`
	Provider        string        `json:"provider" example:"roomly"`
	Price           PriceDTO      `json:"price"`
	BookingURL      string        `json:"booking_url,omitempty"`
	LastUpdated     string        `json:"last_updated,omitempty"`
	DiscountPercent *int          `json:"discount_percent,omitempty" example:"33"`
	ConfirmedBy     []string      `json:"confirmed_by,omitempty" example:"nestly,roomly,staywell"`
	Flight          *FlightDTO    `json:"flight,omitempty"`
	Lodging         *LodgingDTO   `json:"lodging,omitempty"`
	Transport       *TransportDTO `json:"transport,omitempty"`
}

// PriceDTO represents price information.
type PriceDTO struct {
	Amount   float64 `json:"amount" example:"100"`
	Currency string  `json:"currency" example:"USD"`
}

// DurationDTO represents a duration.
type DurationDTO struct {
	TotalMinutes int    `json:"total_minutes" example:"95"`
	Formatted    string `json:"formatted" example:"1h 35m"`
}

// FlightDTO holds itinerary details.
type FlightDTO struct {
	Origin      string       `json:"origin" example:"ATH"`
	Destination string       `json:"destination" example:"BKK"`
	Duration    DurationDTO  `json:"duration"`
	Stops       int          `json:"stops" example:"1"`
	Segments    []SegmentDTO `json:"segments"`
}

// SegmentDTO is one flight leg.
type SegmentDTO struct {
	From         string      `json:"from" example:"ATH"`
	To           string      `json:"to" example:"IST"`
	Carrier      string      `json:"carrier" example:"Turkish Airlines"`
	FlightNumber string      `json:"flight_number" example:"TK1844"`
	Departure    string      `json:"departure,omitempty"`
	Arrival      string      `json:"arrival,omitempty"`
	Duration     DurationDTO `json:"duration"`
}

// LodgingDTO holds property details.
type LodgingDTO struct {
	Name          string            `json:"name" example:"Grand Palace Hotel"`
	Location      string            `json:"location" example:"Bangkok"`
	Rating        float64           `json:"rating" example:"4.4"`
	ReviewCount   int               `json:"review_count" example:"2140"`
	Amenities     []string          `json:"amenities" example:"pool,wifi"`
	SpecialOffers []SpecialOfferDTO `json:"special_offers,omitempty"`
}

// SpecialOfferDTO is a provider promotion.
type SpecialOfferDTO struct {
	Tag         string `json:"tag" example:"first_time"`
	Description string `json:"description" example:"10% off your first stay"`
}

// TransportDTO holds ground transport and experience details.
type TransportDTO struct {
	Operator    string      `json:"operator" example:"Airport Rail Link"`
	Category    string      `json:"category" example:"train"`
	Title       string      `json:"title,omitempty"`
	Origin      string      `json:"origin,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Location    string      `json:"location,omitempty"`
	Departure   string      `json:"departure,omitempty"`
	Duration    DurationDTO `json:"duration"`
}

// DealDTO is a highlighted offer with the reason it was picked.
type DealDTO struct {
	Category        string   `json:"category" example:"lodging"`
	Reason          string   `json:"reason" example:"lowest_price"`
	Explanation     string   `json:"explanation" example:"Cheapest lodging at 100.00 USD, confirmed by 3 providers"`
	DiscountPercent *int     `json:"discount_percent,omitempty" example:"33"`
	Offer           OfferDTO `json:"offer"`
}
