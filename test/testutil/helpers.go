// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/adapter/provider/payload"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// ProjectRoot returns the repository root.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// testutil lives in test/testutil
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}

// LoadMockJSON loads a JSON file from the docs/response-mock directory.
// This is a convenience function for loading provider fixture payloads.
func LoadMockJSON(t *testing.T, filename string) []byte {
	t.Helper()

	mockPath := filepath.Join(ProjectRoot(t), "docs", "response-mock", filename)
	data, err := os.ReadFile(mockPath)
	if err != nil {
		t.Fatalf("Failed to load mock file %s: %v", filename, err)
	}
	return data
}

// LoadMockRecords decodes a fixture payload into raw records attributed to source.
func LoadMockRecords(t *testing.T, filename, source string, kind domain.OfferKind) []domain.RawRecord {
	t.Helper()

	items, err := payload.Decode(LoadMockJSON(t, filename))
	if err != nil {
		t.Fatalf("Failed to decode mock file %s: %v", filename, err)
	}
	return payload.ToRecords(source, kind, items, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
}

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// FloatPtr returns a pointer to a float64.
// Convenience function for budget bounds.
func FloatPtr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to an int.
func IntPtr(i int) *int {
	return &i
}
