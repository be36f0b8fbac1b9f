package aisim

import (
	"fmt"
	"strings"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

const baseInstructions = `You estimate travel offers when no live supplier returned data.
Reply with a JSON array of at most 5 objects and nothing else.
Prices are realistic estimates, never zero. Use ISO 4217 currency codes and ISO 8601 timestamps.
Do not invent booking links.`

// fieldsByKind lists the object fields requested for each kind.
var fieldsByKind = map[domain.OfferKind]string{
	domain.KindFlight:          `"carrier", "flight_number", "origin" (IATA), "destination" (IATA), "departure_time", "arrival_time", "duration" (e.g. "2h 30m"), "stops", "price_per_person", "currency"`,
	domain.KindLodging:         `"name", "location", "price_per_night", "currency", "rating" (0-5), "review_count", "amenities" (array of strings)`,
	domain.KindGroundTransport: `"operator", "category" (train, bus, taxi, ferry), "origin", "destination", "departure_time", "duration", "price_per_person", "currency"`,
	domain.KindExperience:      `"title", "operator", "location", "category", "start_time", "duration", "price_per_person", "currency"`,
}

func systemPrompt(kind domain.OfferKind) string {
	return baseInstructions + "\nEach object has the fields: " + fieldsByKind[kind] + "."
}

func userPrompt(kind domain.OfferKind, q domain.Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Kind: %s\n", strings.ReplaceAll(string(kind), "_", " "))
	if q.Origin != "" {
		fmt.Fprintf(&b, "From: %s\n", q.Origin)
	}
	fmt.Fprintf(&b, "Destination: %s\n", q.Destination)
	fmt.Fprintf(&b, "Date: %s", q.DateOut)
	if q.DateReturn != "" {
		fmt.Fprintf(&b, " to %s", q.DateReturn)
	}
	fmt.Fprintf(&b, "\nTravellers: %d\n", q.PartySize)
	if c := q.Currency(); c != "" {
		fmt.Fprintf(&b, "Quote prices in %s.\n", c)
	}
	return b.String()
}
