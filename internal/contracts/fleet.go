package contracts

import (
	"context"

	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

// ServerRegistry owns the set of known servers, their metadata, and health state.
type ServerRegistry interface {
	// Register stores a new server and returns its generated ID.
	Register(spec domain.ServerSpec) (string, error)

	// Unregister removes the server, returning whether it existed.
	Unregister(id string) bool

	// Get returns a snapshot of the server with the given ID.
	Get(id string) (domain.Server, bool)

	// List returns a page of servers matching the filter.
	List(filter domain.ListFilter) domain.ServerPage

	// Active returns every active server in registration order, taken from a single snapshot.
	Active() []domain.Server

	// IDs returns the IDs of all currently registered servers.
	IDs() []string

	// UpdateHealth records a health verdict, returning whether the server existed.
	UpdateHealth(id string, status domain.HealthStatus, message string) bool
}

// HealthProber checks liveness of registered servers and records the verdict in the registry.
type HealthProber interface {
	// Probe checks a single server.
	Probe(ctx context.Context, id string) domain.ProbeResult

	// ProbeAll checks every registered server concurrently, returning one result per server.
	ProbeAll(ctx context.Context) []domain.ProbeResult
}

// CallForwarder relays method calls to a single registered server.
type CallForwarder interface {
	// Forward sends the call described by the envelope and normalizes the response.
	Forward(ctx context.Context, envelope domain.CallEnvelope) domain.CallResult
}

// ToolDiscoverer aggregates tool listings across servers.
type ToolDiscoverer interface {
	// Discover queries the selected servers and merges their tools.
	Discover(ctx context.Context, query domain.DiscoveryQuery) domain.DiscoveryResult
}

// ToolLister requests the raw tool listing of a single server.
type ToolLister interface {
	// Discover sends a tool listing call to the server, optionally on behalf of a tenant.
	Discover(ctx context.Context, id string, tenantID string) domain.CallResult
}
