// Package http provides the HTTP handler layer for the offer search API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"regexp"
	"strings"
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// SearchOffersRequest represents the request body for offer search.
type SearchOffersRequest struct {
	// Kind selects the offer families: flight, lodging, ground_transport, experience or all (default)
	Kind string `json:"kind,omitempty" example:"all"`

	// Origin is the departure point, required for flight searches (e.g., "ATH")
	Origin string `json:"origin,omitempty" example:"ATH"`

	// Destination is a city or airport code (e.g., "Bangkok")
	Destination string `json:"destination" example:"Bangkok"`

	// DateOut is the outbound or check-in date in YYYY-MM-DD format
	DateOut string `json:"dateOut" example:"2026-03-10"`

	// DateReturn is the optional return or check-out date in YYYY-MM-DD format
	DateReturn string `json:"dateReturn,omitempty" example:"2026-03-13"`

	// PartySize is the number of travellers (1-20, default 1)
	PartySize int `json:"partySize,omitempty" example:"2"`

	// FlexibleDates allows providers to return nearby dates
	FlexibleDates bool `json:"flexibleDates,omitempty"`

	// Budget optionally bounds the returned prices
	Budget *BudgetDTO `json:"budget,omitempty"`
}

// BudgetDTO bounds offer prices in one currency.
// Example: {"min": 50, "max": 200, "currency": "USD"}
type BudgetDTO struct {
	Min      *float64 `json:"min,omitempty" example:"50"`
	Max      *float64 `json:"max,omitempty" example:"200"`
	Currency string   `json:"currency,omitempty" example:"USD"`
}

var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate checks the request shape and normalizes casing. It reports every
// invalid field at once; the use case re-validates the resulting query.
func (r *SearchOffersRequest) Validate() error {
	errs := &ValidationErrors{}

	r.validateKind(errs)
	r.validateDestination(errs)
	r.validateOrigin(errs)
	r.validateDates(errs)
	r.validatePartySize(errs)
	r.validateBudget(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (r *SearchOffersRequest) validateKind(errs *ValidationErrors) {
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	if r.Kind == "" {
		return
	}
	if !domain.QueryKind(r.Kind).IsValid() {
		errs.Add("kind", "kind must be one of: flight, lodging, ground_transport, experience, all")
	}
}

func (r *SearchOffersRequest) validateDestination(errs *ValidationErrors) {
	r.Destination = strings.TrimSpace(r.Destination)
	if r.Destination == "" {
		errs.Add("destination", "destination is required")
	}
}

func (r *SearchOffersRequest) validateOrigin(errs *ValidationErrors) {
	r.Origin = strings.TrimSpace(r.Origin)
	if r.Kind == string(domain.QueryFlight) && r.Origin == "" {
		errs.Add("origin", "origin is required for flight searches")
		return
	}
	if r.Origin != "" && r.Destination != "" && strings.EqualFold(r.Origin, r.Destination) {
		errs.Add("destination", "origin and destination must be different")
	}
}

func (r *SearchOffersRequest) validateDates(errs *ValidationErrors) {
	out, ok := parseRequestDate(errs, "dateOut", r.DateOut, true)
	if !ok {
		return
	}
	back, ok := parseRequestDate(errs, "dateReturn", r.DateReturn, false)
	if ok && !back.IsZero() && back.Before(out) {
		errs.Add("dateReturn", "dateReturn must not be before dateOut")
	}
}

func parseRequestDate(errs *ValidationErrors, field, value string, required bool) (time.Time, bool) {
	if value == "" {
		if required {
			errs.Add(field, field+" is required")
			return time.Time{}, false
		}
		return time.Time{}, true
	}
	if !datePattern.MatchString(value) {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		errs.Add(field, field+" is not a valid date")
		return time.Time{}, false
	}
	return t, true
}

func (r *SearchOffersRequest) validatePartySize(errs *ValidationErrors) {
	if r.PartySize < 0 {
		errs.Add("partySize", "partySize must be at least 1")
		return
	}
	if r.PartySize > domain.MaxPartySize {
		errs.Add("partySize", "partySize cannot exceed 20")
	}
}

func (r *SearchOffersRequest) validateBudget(errs *ValidationErrors) {
	b := r.Budget
	if b == nil {
		return
	}

	if b.Min != nil && *b.Min < 0 {
		errs.Add("budget.min", "min must be a non-negative number")
	}
	if b.Max != nil && *b.Max < 0 {
		errs.Add("budget.max", "max must be a non-negative number")
	}
	if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		errs.Add("budget", "min must be less than or equal to max")
	}

	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))
	if b.Currency != "" && !currencyPattern.MatchString(b.Currency) {
		errs.Add("budget.currency", "currency must be a 3-letter ISO 4217 code")
	}
}
