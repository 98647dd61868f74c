// Package errors defines domain-level errors used throughout the application.
// These errors represent failures of the registry, prober, forwarder and aggregator,
// and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrServerNotFound indicates that the referenced server ID has no registry entry.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotFound = errors.New("server not found")

	// ErrServerUnavailable indicates that the server exists but is inactive or marked unhealthy,
	// so it is not eligible to receive traffic.
	// Recommended to map to HTTP 503 Service Unavailable.
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrTimeout indicates that an outbound call to a server exceeded its time bound.
	// Recommended to map to HTTP 504 Gateway Timeout.
	ErrTimeout = errors.New("timeout")

	// ErrTransport indicates that a server could not be reached (connection refused, DNS failure, etc.).
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrTransport = errors.New("transport error")

	// ErrUpstreamStatus indicates that a server answered with a non-success HTTP status.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")

	// ErrProtocol indicates that a server answered successfully but the payload encodes an RPC-level error.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrProtocol = errors.New("server returned an error")

	// ErrInvalidResponse indicates that a server's response body could not be decoded.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrInvalidResponse = errors.New("invalid response")
)
