// Package ranker extracts explainable deals from merged offer sets.
package ranker

import (
	"fmt"
	"strings"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// OfferSets holds the merged representatives of one search, keyed by kind.
type OfferSets map[domain.OfferKind][]domain.NormalizedOffer

// FromResults builds OfferSets from aggregated results.
func FromResults(r *domain.AggregatedResults) OfferSets {
	sets := make(OfferSets, 4)
	for _, k := range domain.AllOfferKinds() {
		sets[k] = r.OffersOf(k)
	}
	return sets
}

// Rank selects the lowest price per kind, the best value lodging and every
// new-customer promotion. Deals come out in kind order, then by reason.
func Rank(sets OfferSets) []domain.Deal {
	deals := make([]domain.Deal, 0)
	for _, kind := range domain.AllOfferKinds() {
		offers := sets[kind]
		if len(offers) == 0 {
			continue
		}
		if d, ok := LowestPrice(kind, offers); ok {
			deals = append(deals, d)
		}
		if kind == domain.KindLodging {
			if d, ok := BestValue(offers); ok {
				deals = append(deals, d)
			}
		}
		deals = append(deals, Promotions(kind, offers)...)
	}
	return deals
}

// LowestPrice returns the cheapest offer with a positive price.
func LowestPrice(kind domain.OfferKind, offers []domain.NormalizedOffer) (domain.Deal, bool) {
	best := -1
	for i, o := range offers {
		if o.Price.Amount <= 0 {
			continue
		}
		if best < 0 || o.Price.Amount < offers[best].Price.Amount {
			best = i
		}
	}
	if best < 0 {
		return domain.Deal{}, false
	}

	o := offers[best]
	explanation := fmt.Sprintf("Cheapest %s at %s", kindLabel(kind), formatPrice(o.Price))
	if n := len(o.ConfirmedBy); n > 1 {
		explanation += fmt.Sprintf(", confirmed by %d providers", n)
	}
	return newDeal(kind, o, domain.ReasonLowestPrice, explanation), true
}

// valueScore is rating × reviews / price.
func valueScore(o domain.NormalizedOffer) float64 {
	if o.Lodging == nil || o.Price.Amount <= 0 {
		return 0
	}
	return o.Lodging.Rating.Value * float64(o.Lodging.Rating.ReviewCount) / o.Price.Amount
}

// BestValue returns the lodging with the highest value score. Ties go to the lower price.
func BestValue(offers []domain.NormalizedOffer) (domain.Deal, bool) {
	best := -1
	bestScore := 0.0
	for i, o := range offers {
		if o.Lodging == nil || o.Price.Amount <= 0 {
			continue
		}
		score := valueScore(o)
		if score <= 0 {
			continue
		}
		if best < 0 || score > bestScore || (score == bestScore && o.Price.Amount < offers[best].Price.Amount) {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		return domain.Deal{}, false
	}

	o := offers[best]
	explanation := fmt.Sprintf("Rated %.1f/5 by %d reviewers at %s per night",
		o.Lodging.Rating.Value, o.Lodging.Rating.ReviewCount, formatPrice(o.Price))
	return newDeal(domain.KindLodging, o, domain.ReasonBestValue, explanation), true
}

// Promotions returns a deal for every offer with a first-time or new-customer promotion.
func Promotions(kind domain.OfferKind, offers []domain.NormalizedOffer) []domain.Deal {
	var deals []domain.Deal
	for _, o := range offers {
		if o.Lodging == nil {
			continue
		}
		for _, so := range o.Lodging.SpecialOffers {
			if !so.IsNewCustomer() {
				continue
			}
			explanation := "New customer promotion"
			if so.Description != "" {
				explanation += ": " + so.Description
			}
			deals = append(deals, newDeal(kind, o, domain.ReasonPromotionalOffer, explanation))
			break
		}
	}
	return deals
}

func newDeal(kind domain.OfferKind, o domain.NormalizedOffer, reason domain.DealReason, explanation string) domain.Deal {
	d := domain.Deal{
		Category:    kind,
		Offer:       o.Clone(),
		Reason:      reason,
		Explanation: explanation,
	}
	if o.DiscountPercent != nil && *o.DiscountPercent > 0 {
		v := *o.DiscountPercent
		d.DiscountPercent = &v
	}
	return d
}

func kindLabel(kind domain.OfferKind) string {
	return strings.ReplaceAll(string(kind), "_", " ")
}

func formatPrice(p domain.Price) string {
	return fmt.Sprintf("%.2f %s", p.Amount, p.Currency)
}
