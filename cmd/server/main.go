// Package main is the entry point for the offer aggregation service.
//
//	@title						Offer Aggregation API
//	@version					1.0.0
//	@description				Aggregates flight, lodging, ground transport and experience offers from multiple providers into one ranked result with highlighted deals.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/travel-search/offer-aggregation-engine/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/travel-search/offer-aggregation-engine/docs"

	offerhttp "github.com/travel-search/offer-aggregation-engine/internal/adapter/http"
	"github.com/travel-search/offer-aggregation-engine/internal/adapter/http/middleware"
	"github.com/travel-search/offer-aggregation-engine/internal/adapter/http/response"
	"github.com/travel-search/offer-aggregation-engine/internal/app"
	"github.com/travel-search/offer-aggregation-engine/internal/config"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
)

const (
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Logging)

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("providers_file", cfg.Providers.File).
		Msg("Configuration loaded")

	components, err := app.Build(cfg, ".", log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build application")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.HTTPErrorHandler = errorHandler(e)

	middleware.Setup(e, log)

	handler := offerhttp.NewOfferHandler(components.UseCase, components.Providers)
	offerhttp.RegisterRoutes(e, handler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, log)
}

// errorHandler renders unknown routes with the API error envelope and
// leaves everything else to echo.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusNotFound && !c.Response().Committed {
			_ = response.NotFound(c)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
