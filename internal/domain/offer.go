// Package domain contains the core entities of the offer aggregation engine.
// These entities are provider-agnostic: nothing downstream of the normalizer
// needs to know which provider produced an offer.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// OfferKind identifies one of the canonical offer families.
type OfferKind string

// Available offer kinds.
const (
	KindFlight          OfferKind = "flight"
	KindLodging         OfferKind = "lodging"
	KindGroundTransport OfferKind = "ground_transport"
	KindExperience      OfferKind = "experience"
)

// AllOfferKinds returns every offer kind in presentation order.
func AllOfferKinds() []OfferKind {
	return []OfferKind{KindFlight, KindLodging, KindGroundTransport, KindExperience}
}

// IsValid checks if the offer kind is a known value.
func (k OfferKind) IsValid() bool {
	switch k {
	case KindFlight, KindLodging, KindGroundTransport, KindExperience:
		return true
	default:
		return false
	}
}

// ParseOfferKind converts a loosely formatted kind string to an OfferKind.
// The second return value is false for unknown kinds.
func ParseOfferKind(s string) (OfferKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flight", "flights", "air":
		return KindFlight, true
	case "lodging", "lodgings", "hotel", "hotels", "stay":
		return KindLodging, true
	case "ground_transport", "transport", "ground", "bus", "train":
		return KindGroundTransport, true
	case "experience", "experiences", "activity", "tour":
		return KindExperience, true
	default:
		return OfferKind(s), false
	}
}

// RawRecord is a provider-shaped record. Fields is opaque outside the normalizer.
type RawRecord struct {
	Source     string
	Kind       OfferKind
	Fields     map[string]any
	ReceivedAt time.Time
}

// Price is a non-negative amount in an ISO 4217 currency.
// Lodging prices are per night; flight and transport prices cover the whole itinerary.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// NormalizedOffer is a tagged union over the flight, lodging and transport variants.
// Exactly one of Flight, Lodging or Transport is set.
type NormalizedOffer struct {
	ID          string    `json:"id"`
	Kind        OfferKind `json:"kind"`
	Price       Price     `json:"price"`
	Source      string    `json:"source"`
	BookingURL  string    `json:"bookingUrl,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`

	// DiscountPercent is set on merge representatives confirmed by two or more sources.
	DiscountPercent *int `json:"discountPercent,omitempty"`

	// ConfirmedBy lists the sources that reported the same real-world offer.
	ConfirmedBy []string `json:"confirmedBy,omitempty"`

	Flight    *FlightDetails    `json:"flight,omitempty"`
	Lodging   *LodgingDetails   `json:"lodging,omitempty"`
	Transport *TransportDetails `json:"transport,omitempty"`
}

// Segment is one leg of a flight itinerary.
type Segment struct {
	From            string    `json:"from"`
	To              string    `json:"to"`
	Carrier         string    `json:"carrier"`
	FlightNumber    string    `json:"flightNumber"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	DurationMinutes int       `json:"durationMinutes"`
}

// FlightDetails holds the flight variant fields.
type FlightDetails struct {
	Segments             []Segment `json:"segments"`
	TotalDurationMinutes int       `json:"totalDurationMinutes"`
	Layovers             int       `json:"layovers"`
}

// Origin returns the departure point of the first segment.
func (f *FlightDetails) Origin() string {
	if f == nil || len(f.Segments) == 0 {
		return ""
	}
	return f.Segments[0].From
}

// Destination returns the arrival point of the last segment.
func (f *FlightDetails) Destination() string {
	if f == nil || len(f.Segments) == 0 {
		return ""
	}
	return f.Segments[len(f.Segments)-1].To
}

// Departure returns the departure time of the first segment.
func (f *FlightDetails) Departure() time.Time {
	if f == nil || len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[0].Departure
}

// Rating is a 0–5 score plus the number of reviews backing it.
type Rating struct {
	Value       float64 `json:"value"`
	ReviewCount int     `json:"reviewCount"`
}

// SpecialOffer is a provider promotion attached to a lodging.
type SpecialOffer struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

// Promotion tags recognized by the deal ranker.
const (
	TagNewCustomer = "new_customer"
	TagFirstTime   = "first_time"
)

// IsNewCustomer reports whether the offer targets first-time or new customers.
func (s SpecialOffer) IsNewCustomer() bool {
	switch s.Tag {
	case TagNewCustomer, TagFirstTime:
		return true
	}
	d := strings.ToLower(s.Description)
	return strings.Contains(d, "first-time") ||
		strings.Contains(d, "first time") ||
		strings.Contains(d, "new customer")
}

// LodgingDetails holds the lodging variant fields.
type LodgingDetails struct {
	Name          string         `json:"name"`
	Location      string         `json:"location"`
	Rating        Rating         `json:"rating"`
	Amenities     []string       `json:"amenities"`
	SpecialOffers []SpecialOffer `json:"specialOffers,omitempty"`
}

// TransportDetails holds the ground transport and experience variant fields.
type TransportDetails struct {
	Operator        string    `json:"operator"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"durationMinutes"`
	Title           string    `json:"title,omitempty"`
	Origin          string    `json:"origin,omitempty"`
	Destination     string    `json:"destination,omitempty"`
	Location        string    `json:"location,omitempty"`
	Departure       time.Time `json:"departure,omitempty"`
}

// Clone returns a copy of the offer that shares no slices or pointers with o.
func (o NormalizedOffer) Clone() NormalizedOffer {
	c := o
	if o.DiscountPercent != nil {
		d := *o.DiscountPercent
		c.DiscountPercent = &d
	}
	c.ConfirmedBy = append([]string(nil), o.ConfirmedBy...)
	if o.Flight != nil {
		f := *o.Flight
		f.Segments = append([]Segment(nil), o.Flight.Segments...)
		c.Flight = &f
	}
	if o.Lodging != nil {
		l := *o.Lodging
		l.Amenities = append([]string(nil), o.Lodging.Amenities...)
		l.SpecialOffers = append([]SpecialOffer(nil), o.Lodging.SpecialOffers...)
		c.Lodging = &l
	}
	if o.Transport != nil {
		t := *o.Transport
		c.Transport = &t
	}
	return c
}

// MergeGroup is a set of offers sharing a fingerprint. The representative is the
// cheapest member; the rest are alternates.
type MergeGroup struct {
	Fingerprint    string
	Representative NormalizedOffer
	Alternates     []NormalizedOffer
}

// Size returns the number of offers in the group.
func (g MergeGroup) Size() int {
	return 1 + len(g.Alternates)
}

// FormatDuration renders minutes as "Xh Ym", "Xh" or "Ym".
func FormatDuration(totalMinutes int) string {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	hours := totalMinutes / 60
	mins := totalMinutes % 60

	switch {
	case hours > 0 && mins > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(mins) + "m"
	case hours > 0:
		return strconv.Itoa(hours) + "h"
	default:
		return strconv.Itoa(mins) + "m"
	}
}
