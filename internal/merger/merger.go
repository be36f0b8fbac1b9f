// Package merger groups normalized offers that describe the same real-world item and
// collapses every group to its cheapest representative.
package merger

import (
	"math"
	"sort"
	"strings"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/timeutil"
)

const fingerprintSep = "|"

// Fingerprint derives the key under which offers are considered the same item.
//
//   - flight: origin, destination and departure date
//   - ground transport and experience: origin, destination and departure date, or
//     title, location and date when the offer has no route
//   - lodging: name with whitespace collapsed
//
// Text is lowercased and the price currency is appended, so offers quoted in different
// currencies never share a group.
func Fingerprint(o domain.NormalizedOffer) string {
	var parts []string

	switch {
	case o.Flight != nil:
		parts = []string{
			canonical(o.Flight.Origin()),
			canonical(o.Flight.Destination()),
			dateOf(o.Flight),
		}
	case o.Lodging != nil:
		parts = []string{canonical(o.Lodging.Name)}
	case o.Transport != nil:
		t := o.Transport
		date := ""
		if !t.Departure.IsZero() {
			date = timeutil.FormatDate(t.Departure)
		}
		if t.Origin == "" && t.Destination == "" {
			parts = []string{canonical(t.Title), canonical(t.Location), date}
		} else {
			parts = []string{canonical(t.Origin), canonical(t.Destination), date}
		}
	default:
		parts = []string{o.Source, o.ID}
	}

	parts = append([]string{string(o.Kind)}, parts...)
	parts = append(parts, strings.ToUpper(o.Price.Currency))
	return strings.Join(parts, fingerprintSep)
}

func dateOf(f *domain.FlightDetails) string {
	dep := f.Departure()
	if dep.IsZero() {
		return ""
	}
	return timeutil.FormatDate(dep)
}

func canonical(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Group partitions offers by fingerprint. Groups come out in order of first appearance.
func Group(offers []domain.NormalizedOffer) []domain.MergeGroup {
	index := make(map[string]int, len(offers))
	members := make([][]domain.NormalizedOffer, 0, len(offers))
	keys := make([]string, 0, len(offers))

	for _, o := range offers {
		fp := Fingerprint(o)
		i, ok := index[fp]
		if !ok {
			i = len(members)
			index[fp] = i
			members = append(members, nil)
			keys = append(keys, fp)
		}
		members[i] = append(members[i], o)
	}

	groups := make([]domain.MergeGroup, 0, len(members))
	for i, m := range members {
		groups = append(groups, collapse(keys[i], m))
	}
	return groups
}

// Merge returns one representative per fingerprint, in group discovery order.
// Merging an already merged sequence returns it unchanged.
func Merge(offers []domain.NormalizedOffer) []domain.NormalizedOffer {
	groups := Group(offers)
	out := make([]domain.NormalizedOffer, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Representative)
	}
	return out
}

// collapse picks the representative of one group and annotates it.
func collapse(fp string, members []domain.NormalizedOffer) domain.MergeGroup {
	if len(members) == 1 {
		return domain.MergeGroup{Fingerprint: fp, Representative: members[0]}
	}

	sorted := make([]domain.NormalizedOffer, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	rep := sorted[0].Clone()
	minPrice := rep.Price.Amount
	maxPrice := minPrice
	sources := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Price.Amount > maxPrice {
			maxPrice = m.Price.Amount
		}
		sources[m.Source] = struct{}{}
		for _, s := range m.ConfirmedBy {
			sources[s] = struct{}{}
		}
	}

	discount := DiscountPercent(minPrice, maxPrice)
	rep.DiscountPercent = &discount
	rep.ConfirmedBy = make([]string, 0, len(sources))
	for s := range sources {
		rep.ConfirmedBy = append(rep.ConfirmedBy, s)
	}
	sort.Strings(rep.ConfirmedBy)

	return domain.MergeGroup{
		Fingerprint:    fp,
		Representative: rep,
		Alternates:     sorted[1:],
	}
}

// less orders by price, then earliest LastUpdated, then source name.
func less(a, b domain.NormalizedOffer) bool {
	if a.Price.Amount != b.Price.Amount {
		return a.Price.Amount < b.Price.Amount
	}
	if !a.LastUpdated.Equal(b.LastUpdated) {
		return a.LastUpdated.Before(b.LastUpdated)
	}
	return a.Source < b.Source
}

// DiscountPercent is round((max-min)/max*100) clamped to 0..100, or 0 when max is 0.
func DiscountPercent(minPrice, maxPrice float64) int {
	if maxPrice <= 0 {
		return 0
	}
	d := int(math.Round((maxPrice - minPrice) / maxPrice * 100))
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}
