package normalizer

import "strings"

// ExchangeRates holds units of each currency per one unit of Base.
type ExchangeRates struct {
	Base  string
	Rates map[string]float64
}

// NewExchangeRates builds a rate table. Codes are uppercased and the base is pinned to 1.
func NewExchangeRates(base string, rates map[string]float64) *ExchangeRates {
	base = strings.ToUpper(strings.TrimSpace(base))
	r := &ExchangeRates{Base: base, Rates: make(map[string]float64, len(rates)+1)}
	for code, rate := range rates {
		if rate > 0 {
			r.Rates[strings.ToUpper(strings.TrimSpace(code))] = rate
		}
	}
	if base != "" {
		r.Rates[base] = 1
	}
	return r
}

// Convert converts amount from one currency to another. ok is false when either
// currency is unknown.
func (r *ExchangeRates) Convert(amount float64, from, to string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, true
	}
	fromRate, ok := r.Rates[from]
	if !ok {
		return 0, false
	}
	toRate, ok := r.Rates[to]
	if !ok {
		return 0, false
	}
	return amount / fromRate * toRate, true
}
