// Package payload decodes provider JSON responses into raw offer records.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// ErrUnexpectedShape is returned when a payload holds no recognizable record list.
var ErrUnexpectedShape = errors.New("unexpected payload shape")

// listKeys are the envelope keys that may hold the record list, in lookup order.
var listKeys = []string{"results", "offers", "data", "items", "flights", "hotels", "properties", "routes", "activities"}

// destinationKeys are the record fields checked by MatchesDestination.
var destinationKeys = []string{"destination", "destination_city", "to", "arrival_city", "city", "location", "address"}

// Decode parses a JSON document that is either a bare array of objects or an object
// wrapping one under a well-known key such as "results" or "data". Numbers are kept
// as json.Number so large identifiers survive unchanged.
func Decode(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return extract(doc, 0)
}

func extract(doc any, depth int) ([]map[string]any, error) {
	switch v := doc.(type) {
	case nil:
		return []map[string]any{}, nil
	case []any:
		items := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items, nil
	case map[string]any:
		if depth > 1 {
			break
		}
		for _, key := range listKeys {
			if inner, ok := v[key]; ok {
				return extract(inner, depth+1)
			}
		}
	}
	return nil, ErrUnexpectedShape
}

// ToRecords wraps decoded items as raw records attributed to source.
func ToRecords(source string, kind domain.OfferKind, items []map[string]any, receivedAt time.Time) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(items))
	for _, item := range items {
		records = append(records, domain.RawRecord{
			Source:     source,
			Kind:       kind,
			Fields:     item,
			ReceivedAt: receivedAt,
		})
	}
	return records
}

// MatchesDestination reports whether an item plausibly belongs to the queried
// destination. Items carrying none of the destination fields are kept.
func MatchesDestination(item map[string]any, destination string) bool {
	want := strings.ToLower(strings.TrimSpace(destination))
	if want == "" {
		return true
	}

	seen := false
	for _, key := range destinationKeys {
		s, ok := item[key].(string)
		if !ok || s == "" {
			continue
		}
		seen = true
		if strings.Contains(strings.ToLower(s), want) {
			return true
		}
	}
	return !seen
}
