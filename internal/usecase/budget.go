package usecase

import "github.com/travel-search/offer-aggregation-engine/internal/domain"

// applyBudget keeps offers whose price lies within the budget. Offers priced in
// another currency are kept. The input slice is not modified.
func applyBudget(offers []domain.NormalizedOffer, budget *domain.Budget) []domain.NormalizedOffer {
	if budget == nil || (budget.Min == nil && budget.Max == nil) {
		return offers
	}

	result := make([]domain.NormalizedOffer, 0, len(offers))
	for _, o := range offers {
		if budget.Contains(o.Price) {
			result = append(result, o)
		}
	}
	return result
}
