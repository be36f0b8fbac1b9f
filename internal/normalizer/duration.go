package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	isoDurationRegex   = regexp.MustCompile(`^p(?:(\d+)d)?(?:t(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?)?$`)
	clockDurationRegex = regexp.MustCompile(`^(\d{1,3}):(\d{2})$`)
	unitDurationRegex  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(days?|d|hours?|hrs?|h|minutes?|mins?|m)\b`)
	letterDigitRegex   = regexp.MustCompile(`([a-z])(\d)`)
)

// ParseDurationMinutes converts integer minutes, "2h 30m", "2h", "45m", "02:30" and
// ISO 8601 values such as "PT2H30M" or "P1DT2H" to minutes. Anything else yields 0.
func ParseDurationMinutes(v any) int {
	if v == nil {
		return 0
	}
	if s, ok := v.(string); ok {
		return parseDurationString(s)
	}
	if n, ok := asNumber(v); ok && n > 0 {
		return int(math.Round(n))
	}
	return 0
}

func parseDurationString(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	if m := isoDurationRegex.FindStringSubmatch(s); m != nil && s != "p" && s != "pt" {
		days := atoi(m[1])
		hours := atoi(m[2])
		mins := atoi(m[3])
		return days*24*60 + hours*60 + mins
	}

	if m := clockDurationRegex.FindStringSubmatch(s); m != nil {
		return atoi(m[1])*60 + atoi(m[2])
	}

	// "2h30m" has no word boundary after the unit.
	s = letterDigitRegex.ReplaceAllString(s, "$1 $2")

	total := 0.0
	for _, m := range unitDurationRegex.FindAllStringSubmatch(s, -1) {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch m[2][0] {
		case 'd':
			total += value * 24 * 60
		case 'h':
			total += value * 60
		case 'm':
			total += value
		}
	}
	return int(math.Round(total))
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
