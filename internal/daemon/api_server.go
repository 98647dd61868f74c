package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpfleet/internal/api"
	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/errors"
)

// APIServer manages the HTTP API for the daemon.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	// Logger for API server operations.
	logger hclog.Logger

	registry   contracts.ServerRegistry
	prober     contracts.HealthProber
	forwarder  contracts.CallForwarder
	discoverer contracts.ToolDiscoverer

	// Addr specifies the network address to bind.
	addr string

	// CORS configuration for cross-origin requests.
	cors CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	shutdownTimeout time.Duration
}

// NewAPIServer creates a new API server with the provided dependencies and options.
// Applies default options first, then user-provided options to ensure all fields have valid values.
func NewAPIServer(deps APIDependencies, opt ...APIOption) (*APIServer, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}

	// Ensure we always start with defaults and apply user options on top.
	apiOpts, err := NewAPIOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	return &APIServer{
		logger:          deps.Logger.Named("api"),
		registry:        deps.Registry,
		prober:          deps.Prober,
		forwarder:       deps.Forwarder,
		discoverer:      deps.Discoverer,
		addr:            deps.Addr,
		cors:            apiOpts.CORS,
		shutdownTimeout: apiOpts.ShutdownTimeout,
	}, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
func (a *APIServer) Start(ctx context.Context) error {
	mux, apiPathPrefix, err := a.handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)

	// Start the API.
	go func() {
		a.logger.Info("Starting API server", "address", a.addr, "prefix", apiPathPrefix)
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Handle graceful shutdown.
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		_ = srv.Shutdown(shutdownCtx)
		a.logger.Info("Shutdown complete")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// handler builds the router with all API routes registered.
// Returns the router and the API path prefix the routes were registered under.
func (a *APIServer) handler() (*chi.Mux, string, error) {
	// Create router.
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Add CORS middleware if enabled.
	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	// The OpenAPI version doubles as the API path version.
	config := huma.DefaultConfig("mcpfleet docs", api.APIVersion)
	router := humachi.New(mux, config)

	// Configure the error handling wrapping.
	huma.NewErrorWithContext = errorHandler(a.logger)

	apiPathPrefix, err := api.RegisterRoutes(router, a.registry, a.prober, a.forwarder, a.discoverer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to register API routes: %w", err)
	}

	return mux, apiPathPrefix, nil
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (a *APIServer) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	corsOptions := cors.Options{
		AllowedOrigins:   slices.Clone(a.cors.AllowOrigins),
		AllowedMethods:   corsAllowedMethods(),
		AllowedHeaders:   corsAllowedHeaders(),
		ExposedHeaders:   corsExposedHeaders(),
		AllowCredentials: a.cors.AllowCredentials,
		MaxAge:           int(a.cors.MaxAge.Seconds()),
	}

	// Handle wildcard origins properly.
	for i, origin := range corsOptions.AllowedOrigins {
		if origin == "*" {
			corsOptions.AllowedOrigins = []string{"*"}
			corsOptions.AllowCredentials = false
			break
		}
		corsOptions.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	mux.Use(cors.Handler(corsOptions))
}

// mapError maps application domain errors to appropriate HTTP status codes.
//
// This function is the central place where domain errors from internal/errors are converted to HTTP responses.
// When adding new errors to internal/errors/errors.go, you MUST add them here to prevent them from falling
// through to the default case which returns HTTP 500.
//
// Forwarded calls report their failures in the response body, so the upstream errors only reach this
// function when a handler chooses to surface them directly.
//
// Mapping guidelines:
//   - 400: Client errors (bad input, invalid requests)
//   - 404: Resource not found errors
//   - 502: Upstream server failures
//   - 503: Server known but not eligible for traffic
//   - 504: Upstream server timeouts
//   - 500: Unexpected internal errors (default case)
//
// Don't forget to:
// 1. Add test cases to TestMapError (internal/daemon/api_server_test.go)
// 2. Update the documentation in internal/errors/errors.go
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrServerNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrServerUnavailable):
		return huma.Error503ServiceUnavailable(err.Error())
	case stdErrors.Is(err, errors.ErrTimeout):
		logger.Error("Server timed out", "error", err)
		return huma.Error504GatewayTimeout("Server did not respond in time", err)
	case stdErrors.Is(err, errors.ErrTransport):
		logger.Error("Server unreachable", "error", err)
		return huma.Error502BadGateway("Server unreachable", err)
	case stdErrors.Is(err, errors.ErrUpstreamStatus):
		logger.Error("Server returned non-success status", "error", err)
		return huma.Error502BadGateway("Server returned non-success status", err)
	case stdErrors.Is(err, errors.ErrProtocol):
		logger.Error("Server returned an error", "error", err)
		return huma.Error502BadGateway("Server returned an error", err)
	case stdErrors.Is(err, errors.ErrInvalidResponse):
		logger.Error("Server returned an invalid response", "error", err)
		return huma.Error502BadGateway("Server returned an invalid response", err)
	default:
		logger.Error("Unexpected error handling API request", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler wraps error handling for the application when converting to API friendly errors.
// It allows the logger to be supplied to functions that resolve huma.StatusError,
// and it supports different behaviors based on the variadic errors parameter.
// Errors returned by handlers arrive with a 500 status and are mapped, anything else
// (e.g. request validation failures) keeps the status huma supplied.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		switch {
		case len(errs) == 0:
			// No errors provided; return a generic error.
			return huma.NewError(status, msg)
		case status != http.StatusInternalServerError:
			return huma.NewError(status, msg, errs...)
		case len(errs) == 1:
			// Single error; map it directly.
			return mapError(logger, errs[0])
		default:
			// Multiple errors; join them and map.
			return mapError(logger, stdErrors.Join(errs...))
		}
	}
}
