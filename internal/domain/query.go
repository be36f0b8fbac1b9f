package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of query dates.
const DateLayout = "2006-01-02"

// Party size limits.
const (
	MinPartySize = 1
	MaxPartySize = 20
)

// QueryKind selects which offer kinds a search covers.
type QueryKind string

// Available query kinds.
const (
	QueryFlight          QueryKind = "flight"
	QueryLodging         QueryKind = "lodging"
	QueryGroundTransport QueryKind = "ground_transport"
	QueryExperience      QueryKind = "experience"
	QueryAll             QueryKind = "all"
)

// IsValid checks if the query kind is a known value.
func (k QueryKind) IsValid() bool {
	switch k {
	case QueryFlight, QueryLodging, QueryGroundTransport, QueryExperience, QueryAll:
		return true
	default:
		return false
	}
}

// Budget bounds the price of returned offers.
type Budget struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency"`
}

// Contains reports whether a price in the given currency lies within the budget.
// Prices in another currency are never excluded.
func (b *Budget) Contains(p Price) bool {
	if b == nil {
		return true
	}
	if b.Currency != "" && !strings.EqualFold(b.Currency, p.Currency) {
		return true
	}
	if b.Min != nil && p.Amount < *b.Min {
		return false
	}
	if b.Max != nil && p.Amount > *b.Max {
		return false
	}
	return true
}

// Query is a single user search intent.
type Query struct {
	Kind          QueryKind `json:"kind"`
	Origin        string    `json:"origin,omitempty"`
	Destination   string    `json:"destination"`
	DateOut       string    `json:"dateOut"`
	DateReturn    string    `json:"dateReturn,omitempty"`
	PartySize     int       `json:"partySize"`
	FlexibleDates bool      `json:"flexibleDates"`
	Budget        *Budget   `json:"budget,omitempty"`
}

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// SetDefaults applies default values to empty optional fields.
func (q *Query) SetDefaults() {
	if q.Kind == "" {
		q.Kind = QueryAll
	}
	q.Kind = QueryKind(strings.ToLower(strings.TrimSpace(string(q.Kind))))
	if q.PartySize == 0 {
		q.PartySize = MinPartySize
	}
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)
	if q.Budget != nil {
		q.Budget.Currency = strings.ToUpper(strings.TrimSpace(q.Budget.Currency))
	}
}

// Validate checks the query and returns a *ValidationError for the first invalid field.
func (q *Query) Validate() error {
	if !q.Kind.IsValid() {
		return NewValidationError("kind", "kind must be one of: flight, lodging, ground_transport, experience, all")
	}
	if strings.TrimSpace(q.Destination) == "" {
		return NewValidationError("destination", "destination is required")
	}
	if q.Kind == QueryFlight && strings.TrimSpace(q.Origin) == "" {
		return NewValidationError("origin", "origin is required for flight searches")
	}

	out, err := parseDate(q.DateOut)
	if err != nil {
		return NewValidationError("dateOut", "dateOut must be a valid date in YYYY-MM-DD format")
	}
	if q.DateReturn != "" {
		ret, err := parseDate(q.DateReturn)
		if err != nil {
			return NewValidationError("dateReturn", "dateReturn must be a valid date in YYYY-MM-DD format")
		}
		if ret.Before(out) {
			return NewValidationError("dateReturn", "dateReturn must not be before dateOut")
		}
	}

	if q.PartySize < MinPartySize || q.PartySize > MaxPartySize {
		return NewValidationError("partySize", "partySize must be between 1 and 20")
	}

	if b := q.Budget; b != nil {
		if b.Min != nil && *b.Min < 0 {
			return NewValidationError("budget.min", "budget.min must be non-negative")
		}
		if b.Max != nil && *b.Max < 0 {
			return NewValidationError("budget.max", "budget.max must be non-negative")
		}
		if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
			return NewValidationError("budget", "budget.min must be less than or equal to budget.max")
		}
		if b.Currency != "" && !currencyCodeRegex.MatchString(strings.ToUpper(b.Currency)) {
			return NewValidationError("budget.currency", "budget.currency must be a 3-letter ISO 4217 code")
		}
	}

	return nil
}

// Kinds expands the query kind into the offer kinds it covers.
func (q Query) Kinds() []OfferKind {
	switch q.Kind {
	case QueryFlight:
		return []OfferKind{KindFlight}
	case QueryLodging:
		return []OfferKind{KindLodging}
	case QueryGroundTransport:
		return []OfferKind{KindGroundTransport}
	case QueryExperience:
		return []OfferKind{KindExperience}
	case QueryAll, "":
		return AllOfferKinds()
	default:
		return nil
	}
}

// Nights returns the length of stay implied by the query dates, at least 1.
func (q Query) Nights() int {
	out, err := parseDate(q.DateOut)
	if err != nil || q.DateReturn == "" {
		return 1
	}
	ret, err := parseDate(q.DateReturn)
	if err != nil {
		return 1
	}
	nights := int(ret.Sub(out).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// Currency returns the currency requested through the budget, or "".
func (q Query) Currency() string {
	if q.Budget == nil {
		return ""
	}
	return strings.ToUpper(q.Budget.Currency)
}

// CanonicalKey returns a stable serialization of the query. Free text is trimmed and
// lowercased and keys are emitted in sorted order, so semantically identical queries
// share a key regardless of field order or casing.
func (q Query) CanonicalKey() string {
	kind := strings.ToLower(strings.TrimSpace(string(q.Kind)))
	if kind == "" {
		kind = string(QueryAll)
	}
	party := q.PartySize
	if party == 0 {
		party = MinPartySize
	}

	fields := map[string]string{
		"kind":          kind,
		"origin":        canonicalText(q.Origin),
		"destination":   canonicalText(q.Destination),
		"dateOut":       strings.TrimSpace(q.DateOut),
		"dateReturn":    strings.TrimSpace(q.DateReturn),
		"partySize":     strconv.Itoa(party),
		"flexibleDates": strconv.FormatBool(q.FlexibleDates),
	}
	if b := q.Budget; b != nil {
		fields["budget.currency"] = strings.ToUpper(strings.TrimSpace(b.Currency))
		if b.Min != nil {
			fields["budget.min"] = strconv.FormatFloat(*b.Min, 'f', -1, 64)
		}
		if b.Max != nil {
			fields["budget.max"] = strconv.FormatFloat(*b.Max, 'f', -1, 64)
		}
	}

	// encoding/json writes map keys in sorted order.
	key, _ := json.Marshal(fields)
	return string(key)
}

func canonicalText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
