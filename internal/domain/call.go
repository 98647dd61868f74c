package domain

// CallEnvelope describes one method call addressed to a specific server.
type CallEnvelope struct {
	ServerID string
	Method   string
	Params   map[string]any

	// TenantID is optional, and appended to the outbound call when present.
	TenantID string
}

// CallResult is the normalized outcome of forwarding a call.
// Failures are described by Error/Err rather than returned as Go errors.
type CallResult struct {
	Success  bool
	ServerID string

	// Data holds the server's result on success.
	Data any

	// Error holds a human-readable description of the failure.
	Error string

	// Err holds the categorized failure, wrapping a sentinel from internal/errors.
	Err error

	// Payload retains the decoded response body when the server reported a protocol-level error.
	Payload map[string]any
}
