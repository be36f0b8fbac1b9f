package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
)

// Setup registers the middleware stack on e. Call it before registering routes.
// Order matters:
//  1. RequestID, so every later log line carries the id
//  2. RequestLogger
//  3. Recover, innermost, so a recovered panic is still logged as a 500
func Setup(e *echo.Echo, log *logger.Logger) {
	SetupWithConfig(e, log, DefaultRecoveryConfig())
}

// SetupWithConfig registers middleware with custom recovery configuration.
func SetupWithConfig(e *echo.Echo, log *logger.Logger, recoveryConfig RecoveryConfig) {
	for _, mw := range Chain(log, recoveryConfig) {
		e.Use(mw)
	}
}

// Chain returns the middleware stack as a slice for use with route groups.
func Chain(log *logger.Logger, recoveryConfig RecoveryConfig) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		RequestID(),
		RequestLogger(log),
		RecoverWithConfig(log, recoveryConfig),
	}
}
