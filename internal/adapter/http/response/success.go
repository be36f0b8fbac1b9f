package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health statuses.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Providers *int   `json:"providers,omitempty" example:"7"`
}

// Health writes a health check response.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status: StatusOK,
	})
}

// HealthWithProviders writes a health check response including the number of
// registered providers. A service without providers reports 503 degraded.
func HealthWithProviders(c echo.Context, providers int) error {
	if providers == 0 {
		return c.JSON(http.StatusServiceUnavailable, &HealthResponse{
			Status:    StatusDegraded,
			Providers: &providers,
		})
	}
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:    StatusOK,
		Providers: &providers,
	})
}

// SearchResults writes a 200 OK response with search results.
func SearchResults(c echo.Context, results interface{}) error {
	return c.JSON(http.StatusOK, results)
}
