package normalizer

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Alias tables. Lookups try each alias in order and take the first value that converts
// to the requested type, so "price" holding a nested object falls through to "price.amount".
var (
	idAliases           = []string{"id", "offer_id", "offerId", "code", "reference", "ref"}
	priceAliases        = []string{"price", "amount", "fare", "cost", "rate", "price.amount", "pricing.amount", "pricing.price"}
	totalPriceAliases   = []string{"total_price", "totalPrice", "total", "price.total", "pricing.total"}
	nightlyAliases      = []string{"price_per_night", "pricePerNight", "nightly_rate", "nightlyRate", "rate_per_night", "pricing.per_night"}
	perPersonAliases    = []string{"price_per_person", "pricePerPerson", "per_person", "fare_per_passenger", "pricing.per_person"}
	priceBasisAliases   = []string{"price_basis", "priceBasis", "price_type", "pricing.basis"}
	currencyAliases     = []string{"currency", "currency_code", "currencyCode", "price.currency", "pricing.currency"}
	bookingURLAliases   = []string{"booking_url", "bookingUrl", "deeplink", "deep_link", "url", "link"}
	updatedAliases      = []string{"last_updated", "lastUpdated", "updated_at", "updatedAt", "timestamp"}
	timezoneAliases     = []string{"timezone", "tz", "time_zone"}
	segmentsAliases     = []string{"segments", "legs", "itinerary"}
	originAliases       = []string{"origin", "from", "departure_airport", "departure.airport", "origin_city", "departure_city"}
	destinationAliases  = []string{"destination", "to", "arrival_airport", "arrival.airport", "destination_city", "arrival_city"}
	departureAliases    = []string{"departure_time", "departureTime", "departure.time", "departs_at", "depart", "departure", "start_time", "date"}
	arrivalAliases      = []string{"arrival_time", "arrivalTime", "arrival.time", "arrives_at", "arrive", "arrival"}
	carrierAliases      = []string{"carrier", "airline", "airline.name", "marketing_carrier", "operator"}
	flightNumberAliases = []string{"flight_number", "flightNumber", "flight_no", "number"}
	durationAliases     = []string{"duration", "duration_minutes", "durationMinutes", "total_duration", "travel_time"}
	stopsAliases        = []string{"stops", "layovers", "stop_count", "transits"}
	nameAliases         = []string{"name", "hotel_name", "hotelName", "property_name", "title"}
	locationAliases     = []string{"location", "address", "city", "area", "neighborhood", "meeting_point"}
	ratingAliases       = []string{"rating", "stars", "score", "review_score", "rating.value", "rating.score"}
	reviewCountAliases  = []string{"review_count", "reviewCount", "reviews", "num_reviews", "rating.count", "rating.reviews"}
	amenitiesAliases    = []string{"amenities", "facilities", "features"}
	specialOfferAliases = []string{"special_offers", "specialOffers", "promotions", "promos", "deals"}
	nightsAliases       = []string{"nights", "num_nights", "stay_nights"}
	operatorAliases     = []string{"operator", "company", "vendor", "provider", "carrier"}
	categoryAliases     = []string{"category", "type", "mode", "vehicle_type"}
	titleAliases        = []string{"title", "name", "activity", "tour_name"}
	kindAliases         = []string{"kind", "offer_type", "product"}
	offerTagAliases     = []string{"tag", "type", "code"}
	offerTextAliases    = []string{"description", "text", "title", "label"}
)

// fields wraps a raw provider payload with typed, alias-aware accessors.
type fields map[string]any

// get resolves a key, following dotted paths through nested objects.
func (f fields) get(key string) (any, bool) {
	if v, ok := f[key]; ok {
		return v, true
	}
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}
	nested, ok := asMap(f[head])
	if !ok {
		return nil, false
	}
	return fields(nested).get(rest)
}

// str returns the first alias holding a non-empty scalar.
func (f fields) str(aliases ...string) string {
	for _, a := range aliases {
		v, ok := f.get(a)
		if !ok {
			continue
		}
		if s, ok := asString(v); ok && s != "" {
			return s
		}
	}
	return ""
}

// num returns the first alias holding something numeric.
func (f fields) num(aliases ...string) (float64, bool) {
	for _, a := range aliases {
		v, ok := f.get(a)
		if !ok {
			continue
		}
		if n, ok := asNumber(v); ok {
			return n, true
		}
	}
	return 0, false
}

// integer returns the first numeric alias rounded to an int, or 0.
func (f fields) integer(aliases ...string) (int, bool) {
	n, ok := f.num(aliases...)
	if !ok {
		return 0, false
	}
	return int(math.Round(n)), true
}

// raw returns the first alias present, whatever its type.
func (f fields) raw(aliases ...string) (any, bool) {
	for _, a := range aliases {
		if v, ok := f.get(a); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// objects returns the first alias holding a list of objects.
func (f fields) objects(aliases ...string) []fields {
	for _, a := range aliases {
		v, ok := f.get(a)
		if !ok {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			if maps, ok := v.([]map[string]any); ok {
				out := make([]fields, 0, len(maps))
				for _, m := range maps {
					out = append(out, fields(m))
				}
				return out
			}
			continue
		}
		out := make([]fields, 0, len(list))
		for _, item := range list {
			if m, ok := asMap(item); ok {
				out = append(out, fields(m))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// labels returns the first alias holding a list of strings or a comma separated string.
func (f fields) labels(aliases ...string) []string {
	for _, a := range aliases {
		v, ok := f.get(a)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []string:
			return t
		case []any:
			out := make([]string, 0, len(t))
			for _, item := range t {
				if s, ok := asString(item); ok && s != "" {
					out = append(out, s)
				}
			}
			return out
		case string:
			parts := strings.Split(t, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case fields:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	default:
		return "", false
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		amount, _, ok := parseMoney(t)
		return amount, ok
	default:
		return 0, false
	}
}

// normalizeSet lowercases, trims, dedupes and sorts a list of labels.
func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.Join(strings.Fields(v), " "))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// slug turns a free-form tag into snake_case.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
