package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyCodeRegex = regexp.MustCompile(`\b([A-Z]{3})\b`)
	numberRegex       = regexp.MustCompile(`-?\d[\d.,]*`)
)

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"฿": "THB",
	"₹": "INR",
	"₩": "KRW",
}

// parseMoney extracts an amount and an optional currency from strings such as
// "$1,250.50", "USD 120", "1.250,50 €" or "99". ok is false when no number is present.
func parseMoney(s string) (amount float64, currency string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", false
	}

	num := numberRegex.FindString(s)
	if num == "" {
		return 0, "", false
	}
	amount, ok = parseDecimal(num)
	if !ok {
		return 0, "", false
	}

	rest := strings.Replace(s, num, " ", 1)
	if m := currencyCodeRegex.FindStringSubmatch(rest); m != nil {
		currency = m[1]
	} else {
		for sym, code := range currencySymbols {
			if strings.Contains(rest, sym) {
				currency = code
				break
			}
		}
	}
	return amount, currency, true
}

// parseDecimal accepts both "1,250.50" and "1.250,50". The right-most separator is
// the decimal point when it is followed by one or two digits.
func parseDecimal(s string) (float64, bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	decimalSep := byte(0)
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			decimalSep = '.'
		} else {
			decimalSep = ','
		}
	case lastDot >= 0:
		if strings.Count(s, ".") == 1 {
			decimalSep = '.'
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			decimalSep = ','
		}
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		case c == decimalSep:
			b.WriteByte('.')
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// roundMoney rounds to two decimals.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// validCurrency reports whether c looks like an ISO 4217 code.
func validCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}
