// Package normalizer maps provider-shaped raw records onto the canonical offer variants.
//
// Records are read through alias tables, so providers that spell a field differently
// ("price", "total_price", "fare") or nest it ({"price": {"amount": 10}}) land in the
// same canonical field. Partial data never fails a record: missing numbers become 0,
// unparsable durations become 0 and a missing id is generated. Only a record whose
// kind is unknown is rejected.
package normalizer

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/timeutil"
)

// DefaultCurrency is used when neither the record nor the query names a currency.
const DefaultCurrency = "USD"

// Normalizer converts raw records to NormalizedOffer values. It is safe for concurrent use.
type Normalizer struct {
	defaultCurrency string
	rates           *ExchangeRates
	newID           func() string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDefaultCurrency sets the fallback currency.
func WithDefaultCurrency(currency string) Option {
	return func(n *Normalizer) {
		if c := strings.ToUpper(strings.TrimSpace(currency)); validCurrency(c) {
			n.defaultCurrency = c
		}
	}
}

// WithExchangeRates enables conversion to the currency requested by the query budget.
func WithExchangeRates(rates *ExchangeRates) Option {
	return func(n *Normalizer) {
		n.rates = rates
	}
}

// WithIDGenerator overrides the random suffix used for generated ids.
func WithIDGenerator(fn func() string) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.newID = fn
		}
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		defaultCurrency: DefaultCurrency,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize maps one raw record to exactly one offer variant.
// It returns a *domain.NormalizationError only when the record kind is unknown.
func (n *Normalizer) Normalize(rec domain.RawRecord, q domain.Query) (domain.NormalizedOffer, error) {
	f := fields(rec.Fields)
	if f == nil {
		f = fields{}
	}

	kind, ok := resolveKind(rec, f)
	if !ok {
		return domain.NormalizedOffer{}, &domain.NormalizationError{
			Source: rec.Source,
			Kind:   rec.Kind,
			Err:    domain.ErrUnknownOfferKind,
		}
	}

	tz := f.str(timezoneAliases...)
	offer := domain.NormalizedOffer{
		ID:          n.offerID(rec.Source, f),
		Kind:        kind,
		Source:      rec.Source,
		BookingURL:  f.str(bookingURLAliases...),
		LastUpdated: lastUpdated(f, tz, rec.ReceivedAt),
	}

	var amount float64
	switch kind {
	case domain.KindFlight:
		offer.Flight = flightDetails(f, q, tz)
		amount = itineraryPrice(f, q)
	case domain.KindLodging:
		offer.Lodging = lodgingDetails(f, q)
		amount = nightlyPrice(f, q)
	case domain.KindGroundTransport, domain.KindExperience:
		offer.Transport = transportDetails(f, q, kind, tz)
		amount = itineraryPrice(f, q)
	}

	offer.Price = n.price(amount, f, q)
	return offer, nil
}

// NormalizeBatch normalizes every record, skipping and reporting the ones that fail.
func (n *Normalizer) NormalizeBatch(records []domain.RawRecord, q domain.Query) ([]domain.NormalizedOffer, []error) {
	offers := make([]domain.NormalizedOffer, 0, len(records))
	var errs []error
	for _, rec := range records {
		offer, err := n.Normalize(rec, q)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		offers = append(offers, offer)
	}
	return offers, errs
}

func resolveKind(rec domain.RawRecord, f fields) (domain.OfferKind, bool) {
	if rec.Kind.IsValid() {
		return rec.Kind, true
	}
	if rec.Kind != "" {
		return domain.ParseOfferKind(string(rec.Kind))
	}
	if declared := f.str(kindAliases...); declared != "" {
		return domain.ParseOfferKind(declared)
	}
	return "", false
}

func (n *Normalizer) offerID(source string, f fields) string {
	if id := f.str(idAliases...); id != "" {
		return id
	}
	if source == "" {
		source = "offer"
	}
	return source + "-" + n.newID()
}

// price resolves the currency and applies conversion and rounding.
func (n *Normalizer) price(amount float64, f fields, q domain.Query) domain.Price {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	currency := strings.ToUpper(f.str(currencyAliases...))
	if !validCurrency(currency) {
		currency = embeddedCurrency(f)
	}
	if !validCurrency(currency) {
		currency = q.Currency()
	}
	if !validCurrency(currency) {
		currency = n.defaultCurrency
	}

	// With known rates every price lands in one currency so equal offers
	// quoted in different currencies fingerprint alike.
	target := q.Currency()
	if target == "" {
		target = n.defaultCurrency
	}
	if target != currency && n.rates != nil {
		if converted, ok := n.rates.Convert(amount, currency, target); ok {
			amount = converted
			currency = target
		}
	}

	return domain.Price{Amount: roundMoney(amount), Currency: currency}
}

// embeddedCurrency reads a currency from string prices such as "€120".
func embeddedCurrency(f fields) string {
	aliases := make([]string, 0, len(priceAliases)+len(nightlyAliases)+len(totalPriceAliases)+len(perPersonAliases))
	aliases = append(aliases, nightlyAliases...)
	aliases = append(aliases, priceAliases...)
	aliases = append(aliases, totalPriceAliases...)
	aliases = append(aliases, perPersonAliases...)
	for _, a := range aliases {
		v, ok := f.get(a)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if _, c, ok := parseMoney(s); ok && c != "" {
				return c
			}
		}
	}
	return ""
}

// itineraryPrice is the total for all travellers. A per-person fare is multiplied by
// the party size.
func itineraryPrice(f fields, q domain.Query) float64 {
	party := q.PartySize
	if party < 1 {
		party = 1
	}

	if strings.EqualFold(f.str(priceBasisAliases...), "per_person") {
		if v, ok := f.num(priceAliases...); ok {
			return v * float64(party)
		}
	}
	if v, ok := f.num(priceAliases...); ok {
		return v
	}
	if v, ok := f.num(totalPriceAliases...); ok {
		return v
	}
	if v, ok := f.num(perPersonAliases...); ok {
		return v * float64(party)
	}
	return 0
}

// nightlyPrice is the per-night lodging price. An explicit nightly field wins; a total
// is divided by the number of nights.
func nightlyPrice(f fields, q domain.Query) float64 {
	if v, ok := f.num(nightlyAliases...); ok {
		return v
	}

	nights := q.Nights()
	if n, ok := f.integer(nightsAliases...); ok && n > 0 {
		nights = n
	}

	if v, ok := f.num(priceAliases...); ok {
		if strings.EqualFold(f.str(priceBasisAliases...), "total") {
			return v / float64(nights)
		}
		return v
	}
	if v, ok := f.num(totalPriceAliases...); ok {
		return v / float64(nights)
	}
	return 0
}

func lastUpdated(f fields, tz string, receivedAt time.Time) time.Time {
	if v := f.str(updatedAliases...); v != "" {
		if t, err := timeutil.ParseTimestamp(v, tz); err == nil {
			return t
		}
	}
	return receivedAt
}

// parseTime parses a timestamp. A bare "15:04" is placed on the query's outbound date.
func parseTime(value, tz string, q domain.Query) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := timeutil.ParseTimestamp(value, tz); err == nil {
		return t
	}
	if len(value) <= 5 && strings.Contains(value, ":") && q.DateOut != "" {
		zone := tz
		if zone == "" {
			zone = timeutil.UTC
		}
		if t, err := timeutil.ParseInTimezone(domain.DateLayout+" 15:04", q.DateOut+" "+value, zone); err == nil {
			return t
		}
	}
	return time.Time{}
}

// outboundDate is the query date used when a record carries no departure at all.
func outboundDate(q domain.Query) time.Time {
	t, err := time.Parse(domain.DateLayout, q.DateOut)
	if err != nil {
		return time.Time{}
	}
	return t
}

func flightDetails(f fields, q domain.Query, tz string) *domain.FlightDetails {
	list := f.objects(segmentsAliases...)
	raw := list
	if len(raw) == 0 {
		raw = []fields{f}
	}

	segments := make([]domain.Segment, 0, len(raw))
	for i, sf := range raw {
		segTZ := sf.str(timezoneAliases...)
		if segTZ == "" {
			segTZ = tz
		}
		seg := domain.Segment{
			From:         strings.ToUpper(sf.str(originAliases...)),
			To:           strings.ToUpper(sf.str(destinationAliases...)),
			Carrier:      sf.str(carrierAliases...),
			FlightNumber: sf.str(flightNumberAliases...),
			Departure:    parseTime(sf.str(departureAliases...), segTZ, q),
			Arrival:      parseTime(sf.str(arrivalAliases...), segTZ, q),
		}
		if d, ok := sf.raw(durationAliases...); ok {
			seg.DurationMinutes = ParseDurationMinutes(d)
		}
		if seg.DurationMinutes == 0 && !seg.Departure.IsZero() && seg.Arrival.After(seg.Departure) {
			seg.DurationMinutes = int(seg.Arrival.Sub(seg.Departure).Minutes())
		}
		if seg.Carrier == "" {
			seg.Carrier = f.str(carrierAliases...)
		}
		if i == 0 {
			if seg.From == "" {
				seg.From = strings.ToUpper(q.Origin)
			}
			if seg.Departure.IsZero() {
				seg.Departure = outboundDate(q)
			}
		}
		if i == len(raw)-1 && seg.To == "" {
			seg.To = strings.ToUpper(q.Destination)
		}
		segments = append(segments, seg)
	}

	details := &domain.FlightDetails{Segments: segments}

	if len(list) > 0 {
		if d, ok := f.raw(durationAliases...); ok {
			details.TotalDurationMinutes = ParseDurationMinutes(d)
		}
	} else {
		details.TotalDurationMinutes = segments[0].DurationMinutes
	}
	if details.TotalDurationMinutes == 0 {
		first, last := segments[0], segments[len(segments)-1]
		if !first.Departure.IsZero() && last.Arrival.After(first.Departure) {
			details.TotalDurationMinutes = int(last.Arrival.Sub(first.Departure).Minutes())
		} else {
			for _, s := range segments {
				details.TotalDurationMinutes += s.DurationMinutes
			}
		}
	}

	if stops, ok := f.integer(stopsAliases...); ok && stops >= 0 {
		details.Layovers = stops
	} else {
		details.Layovers = len(segments) - 1
	}

	return details
}

func lodgingDetails(f fields, q domain.Query) *domain.LodgingDetails {
	details := &domain.LodgingDetails{
		Name:      strings.Join(strings.Fields(f.str(nameAliases...)), " "),
		Location:  f.str(locationAliases...),
		Amenities: normalizeSet(f.labels(amenitiesAliases...)),
	}
	if details.Location == "" {
		details.Location = q.Destination
	}

	rating, _ := f.num(ratingAliases...)
	if rating > 5 && rating <= 10 {
		rating /= 2
	}
	details.Rating.Value = math.Round(math.Max(0, math.Min(5, rating))*100) / 100

	if reviews, ok := f.integer(reviewCountAliases...); ok && reviews > 0 {
		details.Rating.ReviewCount = reviews
	}

	details.SpecialOffers = specialOffers(f)
	return details
}

func specialOffers(f fields) []domain.SpecialOffer {
	v, ok := f.raw(specialOfferAliases...)
	if !ok {
		return nil
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	case string:
		items = []any{t}
	default:
		if m, ok := asMap(v); ok {
			items = []any{m}
		}
	}

	offers := make([]domain.SpecialOffer, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				offers = append(offers, domain.SpecialOffer{Tag: promoTag(s), Description: s})
			}
			continue
		}
		m, ok := asMap(item)
		if !ok {
			continue
		}
		of := fields(m)
		so := domain.SpecialOffer{
			Tag:         slug(of.str(offerTagAliases...)),
			Description: of.str(offerTextAliases...),
		}
		if so.Tag == "" && so.Description == "" {
			continue
		}
		offers = append(offers, so)
	}
	if len(offers) == 0 {
		return nil
	}
	return offers
}

// promoTag turns a bare string promotion into a tag when it is itself tag-shaped.
func promoTag(s string) string {
	if strings.ContainsAny(s, " .,%!") {
		return ""
	}
	return slug(s)
}

func transportDetails(f fields, q domain.Query, kind domain.OfferKind, tz string) *domain.TransportDetails {
	details := &domain.TransportDetails{
		Operator:    f.str(operatorAliases...),
		Category:    strings.ToLower(f.str(categoryAliases...)),
		Title:       f.str(titleAliases...),
		Origin:      f.str(originAliases...),
		Destination: f.str(destinationAliases...),
		Location:    f.str(locationAliases...),
		Departure:   parseTime(f.str(departureAliases...), tz, q),
	}
	if d, ok := f.raw(durationAliases...); ok {
		details.DurationMinutes = ParseDurationMinutes(d)
	}
	if details.DurationMinutes == 0 {
		arrival := parseTime(f.str(arrivalAliases...), tz, q)
		if !details.Departure.IsZero() && arrival.After(details.Departure) {
			details.DurationMinutes = int(arrival.Sub(details.Departure).Minutes())
		}
	}
	if details.Departure.IsZero() {
		details.Departure = outboundDate(q)
	}
	if details.Category == "" {
		details.Category = string(kind)
	}
	if kind == domain.KindExperience && details.Location == "" {
		details.Location = q.Destination
	}
	return details
}
