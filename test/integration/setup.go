// Package integration provides helpers and integration tests for the offer aggregation system.
// Integration tests verify that components work together correctly, including
// HTTP handlers, the aggregation use case, provider adapters and mock providers.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	httpAdapter "github.com/travel-search/offer-aggregation-engine/internal/adapter/http"
	"github.com/travel-search/offer-aggregation-engine/internal/adapter/http/middleware"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
	"github.com/travel-search/offer-aggregation-engine/internal/usecase"
	"github.com/travel-search/offer-aggregation-engine/test/mock"
)

// SearchPath is the offer search endpoint.
const SearchPath = "/api/v1/offers/search"

// TestServer wraps an Echo instance and provides helper methods for integration testing.
type TestServer struct {
	Echo    *echo.Echo
	Handler *httpAdapter.OfferHandler
}

// NewTestServer creates a test server with the full middleware chain over uc.
// registry feeds the health check and may be nil.
func NewTestServer(uc usecase.OfferSearchUseCase, registry *domain.ProviderRegistry) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.Setup(e, logger.Nop())

	handler := httpAdapter.NewOfferHandler(uc, registry)
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:    e,
		Handler: handler,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	RawBody     string
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	switch {
	case req.RawBody != "":
		bodyReader = bytes.NewReader([]byte(req.RawBody))
	case req.Body != nil:
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	default:
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil || req.RawBody != "" {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// SearchRequest posts body to the search endpoint.
func (ts *TestServer) SearchRequest(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   SearchPath,
		Body:   body,
	})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   "/health",
	})
}

// ParseSearchResponse parses the response body as a SearchResponseDTO.
func (r *Response) ParseSearchResponse() (*httpAdapter.SearchResponseDTO, error) {
	var resp httpAdapter.SearchResponseDTO
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseError parses the response body to extract error information.
func (r *Response) ParseError() (map[string]interface{}, error) {
	var errResp map[string]interface{}
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return nil, err
	}
	return errResp, nil
}

// FutureDate returns a date string the given number of days from now in YYYY-MM-DD format.
func FutureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
}

// DefaultSearchRequest returns a valid lodging search body for Bangkok.
func DefaultSearchRequest() httpAdapter.SearchOffersRequest {
	return httpAdapter.SearchOffersRequest{
		Kind:        "lodging",
		Destination: "Bangkok",
		DateOut:     FutureDate(30),
		DateReturn:  FutureDate(33),
		PartySize:   1,
	}
}

// DefaultQuery returns the domain query equivalent of DefaultSearchRequest.
func DefaultQuery() domain.Query {
	req := DefaultSearchRequest()
	return httpAdapter.ToDomainQuery(&req)
}

// CreateUseCase creates a use case over the given providers with default configuration.
func CreateUseCase(providers ...domain.OfferProvider) usecase.OfferSearchUseCase {
	return usecase.NewOfferSearchUseCase(mock.Registry(providers...), nil)
}

// CreateUseCaseWithConfig creates a use case with custom configuration and options.
func CreateUseCaseWithConfig(config *usecase.Config, opts []usecase.Option, providers ...domain.OfferProvider) usecase.OfferSearchUseCase {
	return usecase.NewOfferSearchUseCase(mock.Registry(providers...), config, opts...)
}

// RepoRoot returns the absolute path of the repository root.
func RepoRoot() string {
	_, currentFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}
