package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the health check and the versioned offer API.
func RegisterRoutes(e *echo.Echo, h *OfferHandler) {
	RegisterRoutesWithMiddleware(e, h)
}

// RegisterRoutesWithMiddleware registers routes with middleware applied to the API group only.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *OfferHandler, middleware ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	api := e.Group("/api/v1", middleware...)

	offers := api.Group("/offers")
	offers.POST("/search", h.SearchOffers)
}
