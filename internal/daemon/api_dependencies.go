package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:8090").
	Addr string

	// Registry holds the known servers.
	Registry contracts.ServerRegistry

	// Prober checks server liveness.
	Prober contracts.HealthProber

	// Forwarder relays calls to servers.
	Forwarder contracts.CallForwarder

	// Discoverer aggregates tools across servers.
	Discoverer contracts.ToolDiscoverer

	// Logger for API server operations.
	Logger hclog.Logger
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	registry contracts.ServerRegistry,
	prober contracts.HealthProber,
	forwarder contracts.CallForwarder,
	discoverer contracts.ToolDiscoverer,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:       addr,
		Registry:   registry,
		Prober:     prober,
		Forwarder:  forwarder,
		Discoverer: discoverer,
		Logger:     logger,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Registry == nil || reflect.ValueOf(d.Registry).IsNil() {
		return fmt.Errorf("registry cannot be nil")
	}
	if d.Prober == nil || reflect.ValueOf(d.Prober).IsNil() {
		return fmt.Errorf("prober cannot be nil")
	}
	if d.Forwarder == nil || reflect.ValueOf(d.Forwarder).IsNil() {
		return fmt.Errorf("forwarder cannot be nil")
	}
	if d.Discoverer == nil || reflect.ValueOf(d.Discoverer).IsNil() {
		return fmt.Errorf("discoverer cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}
