package http

import (
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

const dateTimeLayout = "2006-01-02T15:04:05-07:00"

// ToDomainQuery converts a SearchOffersRequest to domain.Query.
func ToDomainQuery(req *SearchOffersRequest) domain.Query {
	q := domain.Query{
		Kind:          domain.QueryKind(req.Kind),
		Origin:        req.Origin,
		Destination:   req.Destination,
		DateOut:       req.DateOut,
		DateReturn:    req.DateReturn,
		PartySize:     req.PartySize,
		FlexibleDates: req.FlexibleDates,
	}
	if req.Budget != nil {
		q.Budget = &domain.Budget{
			Min:      req.Budget.Min,
			Max:      req.Budget.Max,
			Currency: req.Budget.Currency,
		}
	}
	return q
}

// ToSearchResponseDTO converts aggregated results to the API response shape.
func ToSearchResponseDTO(q domain.Query, res *domain.AggregatedResults) *SearchResponseDTO {
	if res == nil {
		return nil
	}

	dto := &SearchResponseDTO{
		Query: QueryDTO{
			Kind:        string(q.Kind),
			Origin:      q.Origin,
			Destination: q.Destination,
			DateOut:     q.DateOut,
			DateReturn:  q.DateReturn,
			PartySize:   q.PartySize,
		},
		Flights:        toOfferDTOs(res.Flights),
		Lodgings:       toOfferDTOs(res.Lodgings),
		Transport:      toOfferDTOs(res.Transport),
		Experiences:    toOfferDTOs(res.Experiences),
		Deals:          make([]DealDTO, len(res.Deals)),
		SourcesQueried: append([]string{}, res.SourcesQueried...),
		GeneratedAt:    formatTime(res.GeneratedAt),
		Metadata: MetadataDTO{
			TotalResults:       res.TotalOffers(),
			ProvidersQueried:   append([]string{}, res.Metadata.ProvidersQueried...),
			ProvidersSucceeded: append([]string{}, res.Metadata.ProvidersSucceeded...),
			ProvidersFailed:    append([]string{}, res.Metadata.ProvidersFailed...),
			SearchTimeMs:       res.Metadata.SearchTimeMs,
			CacheHit:           res.Metadata.CacheHit,
			Fallback:           res.Metadata.Fallback,
		},
	}

	for i, deal := range res.Deals {
		dto.Deals[i] = DealDTO{
			Category:        string(deal.Category),
			Reason:          string(deal.Reason),
			Explanation:     deal.Explanation,
			DiscountPercent: deal.DiscountPercent,
			Offer:           ToOfferDTO(deal.Offer),
		}
	}

	return dto
}

func toOfferDTOs(offers []domain.NormalizedOffer) []OfferDTO {
	out := make([]OfferDTO, len(offers))
	for i, o := range offers {
		out[i] = ToOfferDTO(o)
	}
	return out
}

// ToOfferDTO converts a normalized offer to its API shape.
func ToOfferDTO(o domain.NormalizedOffer) OfferDTO {
	dto := OfferDTO{
		ID:       o.ID,
		Kind:     string(o.Kind),
		Provider: o.Source,
		Price: PriceDTO{
			Amount:   o.Price.Amount,
			Currency: o.Price.Currency,
		},
		BookingURL:      o.BookingURL,
		LastUpdated:     formatTime(o.LastUpdated),
		DiscountPercent: o.DiscountPercent,
		ConfirmedBy:     o.ConfirmedBy,
	}

	if f := o.Flight; f != nil {
		flight := &FlightDTO{
			Origin:      f.Origin(),
			Destination: f.Destination(),
			Duration:    toDurationDTO(f.TotalDurationMinutes),
			Stops:       f.Layovers,
			Segments:    make([]SegmentDTO, len(f.Segments)),
		}
		for i, s := range f.Segments {
			flight.Segments[i] = SegmentDTO{
				From:         s.From,
				To:           s.To,
				Carrier:      s.Carrier,
				FlightNumber: s.FlightNumber,
				Departure:    formatTime(s.Departure),
				Arrival:      formatTime(s.Arrival),
				Duration:     toDurationDTO(s.DurationMinutes),
			}
		}
		dto.Flight = flight
	}

	if l := o.Lodging; l != nil {
		lodging := &LodgingDTO{
			Name:        l.Name,
			Location:    l.Location,
			Rating:      l.Rating.Value,
			ReviewCount: l.Rating.ReviewCount,
			Amenities:   append([]string{}, l.Amenities...),
		}
		for _, so := range l.SpecialOffers {
			lodging.SpecialOffers = append(lodging.SpecialOffers, SpecialOfferDTO{Tag: so.Tag, Description: so.Description})
		}
		dto.Lodging = lodging
	}

	if t := o.Transport; t != nil {
		dto.Transport = &TransportDTO{
			Operator:    t.Operator,
			Category:    t.Category,
			Title:       t.Title,
			Origin:      t.Origin,
			Destination: t.Destination,
			Location:    t.Location,
			Departure:   formatTime(t.Departure),
			Duration:    toDurationDTO(t.DurationMinutes),
		}
	}

	return dto
}

func toDurationDTO(minutes int) DurationDTO {
	return DurationDTO{
		TotalMinutes: minutes,
		Formatted:    domain.FormatDuration(minutes),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}
