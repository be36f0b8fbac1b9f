package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/travel-search/offer-aggregation-engine/internal/adapter/http/response"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/usecase"
)

// OfferHandler handles HTTP requests for offer search endpoints.
type OfferHandler struct {
	useCase   usecase.OfferSearchUseCase
	providers *domain.ProviderRegistry
}

// NewOfferHandler creates a new OfferHandler. providers is only used by the
// health check and may be nil.
func NewOfferHandler(uc usecase.OfferSearchUseCase, providers *domain.ProviderRegistry) *OfferHandler {
	return &OfferHandler{
		useCase:   uc,
		providers: providers,
	}
}

// SearchOffers handles POST /api/v1/offers/search
//
// @Summary Search travel offers
// @Description Fan out to every provider for the requested kinds and return merged offers and deals
// @Tags offers
// @Accept json
// @Produce json
// @Param request body SearchOffersRequest true "Search criteria"
// @Success 200 {object} SearchResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/offers/search [post]
func (h *OfferHandler) SearchOffers(c echo.Context) error {
	var req SearchOffersRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	q := ToDomainQuery(&req)
	q.SetDefaults()

	result, err := h.useCase.Search(c.Request().Context(), q)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.SearchResults(c, ToSearchResponseDTO(q, result))
}

func (h *OfferHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to HTTP responses.
func (h *OfferHandler) handleError(c echo.Context, err error) error {
	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return response.ValidationError(c, map[string]string{fieldErr.Field: fieldErr.Message})
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	return response.InternalServerError(c)
}

// Health handles GET /health
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Failure 503 {object} response.HealthResponse "No providers registered"
// @Router /health [get]
func (h *OfferHandler) Health(c echo.Context) error {
	if h.providers == nil {
		return response.Health(c)
	}
	return response.HealthWithProviders(c, h.providers.Len())
}
