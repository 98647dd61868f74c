package api

import (
	stdErrors "errors"

	"github.com/mozilla-ai/mcpfleet/internal/errors"
)

// ErrorType represents the classification of errors returned via HTTP headers.
type ErrorType string

// HeaderErrorType is the HTTP header key which should be used to convey API error types.
const HeaderErrorType = "Mcpfleet-Error-Type"

const (
	// ServerNotFound indicates the call addressed a server which is not registered.
	ServerNotFound ErrorType = "server-not-found"

	// ServerUnavailable indicates the server is inactive or unhealthy so the call was not sent.
	ServerUnavailable ErrorType = "server-unavailable"

	// UpstreamTimeout indicates the server did not answer within the forwarding timeout.
	UpstreamTimeout ErrorType = "upstream-timeout"

	// UpstreamUnreachable indicates the server could not be reached.
	UpstreamUnreachable ErrorType = "upstream-unreachable"

	// UpstreamStatus indicates the server answered with a non-success HTTP status.
	UpstreamStatus ErrorType = "upstream-status"

	// UpstreamProtocolError indicates the server answered with an RPC-level error.
	UpstreamProtocolError ErrorType = "upstream-protocol-error"

	// UpstreamInvalidResponse indicates the server's response could not be decoded.
	UpstreamInvalidResponse ErrorType = "upstream-invalid-response"

	// CallFailure is used for failures which do not fall into a more specific category.
	CallFailure ErrorType = "call-failure"
)

// errorTypeFor classifies a forwarding failure, returning an empty ErrorType for a nil error.
func errorTypeFor(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case stdErrors.Is(err, errors.ErrServerNotFound):
		return ServerNotFound
	case stdErrors.Is(err, errors.ErrServerUnavailable):
		return ServerUnavailable
	case stdErrors.Is(err, errors.ErrTimeout):
		return UpstreamTimeout
	case stdErrors.Is(err, errors.ErrTransport):
		return UpstreamUnreachable
	case stdErrors.Is(err, errors.ErrUpstreamStatus):
		return UpstreamStatus
	case stdErrors.Is(err, errors.ErrProtocol):
		return UpstreamProtocolError
	case stdErrors.Is(err, errors.ErrInvalidResponse):
		return UpstreamInvalidResponse
	default:
		return CallFailure
	}
}
