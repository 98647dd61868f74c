package daemon

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/mcpfleet/internal/discovery"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/forward"
	"github.com/mozilla-ai/mcpfleet/internal/health"
	"github.com/mozilla-ai/mcpfleet/internal/registry"
)

// Daemon wires the server registry, prober, forwarder and discovery aggregator
// together and exposes them through the HTTP API.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger              hclog.Logger
	registry            *registry.Registry
	prober              *health.Prober
	apiServer           *APIServer
	seeds               []domain.ServerSpec
	healthCheckInterval time.Duration
}

// NewDaemon creates a new Daemon instance with the provided dependencies and options.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid daemon dependencies: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	reg, err := registry.NewRegistry(deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create server registry: %w", err)
	}

	prober, err := health.NewProber(
		deps.Logger,
		reg,
		health.WithTimeout(opts.ProbeTimeout),
		health.WithConcurrency(opts.ProbeConcurrency),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health prober: %w", err)
	}

	forwarder, err := forward.NewForwarder(deps.Logger, reg, forward.WithTimeout(opts.ForwardTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create call forwarder: %w", err)
	}

	aggregator, err := discovery.NewAggregator(
		deps.Logger,
		reg,
		forwarder,
		discovery.WithConcurrency(opts.DiscoveryConcurrency),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool discovery aggregator: %w", err)
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, reg, prober, forwarder, aggregator, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to create API server dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:              deps.Logger.Named("daemon"),
		registry:            reg,
		prober:              prober,
		apiServer:           apiServer,
		seeds:               deps.Servers,
		healthCheckInterval: opts.HealthCheckInterval,
	}, nil
}

// StartAndManage registers the configured servers, then runs the API server (and background
// health checks when enabled) until the context is canceled or a component fails.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	if err := d.registerServers(); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.apiServer.Start(gCtx)
	})

	if d.healthCheckInterval > 0 {
		g.Go(func() error {
			d.healthCheckLoop(gCtx, d.healthCheckInterval)
			return nil
		})
	} else {
		d.logger.Info("Background health checks disabled")
	}

	return g.Wait()
}

// registerServers adds the servers supplied at construction time to the registry.
func (d *Daemon) registerServers() error {
	for _, spec := range d.seeds {
		if _, err := d.registry.Register(spec); err != nil {
			return fmt.Errorf("failed to register server '%s': %w", spec.Name, err)
		}
	}

	d.logger.Info("Registered configured servers", "count", len(d.seeds))

	return nil
}

// healthCheckLoop probes every registered server immediately, then once per interval until the context is done.
func (d *Daemon) healthCheckLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Info("Starting background health checks", "interval", interval)
	d.probeAll(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Stopping background health checks")
			return
		case <-ticker.C:
			d.probeAll(ctx)
		}
	}
}

func (d *Daemon) probeAll(ctx context.Context) {
	results := d.prober.ProbeAll(ctx)

	counts := make(map[domain.HealthStatus]int)
	for _, r := range results {
		counts[r.Health]++
	}

	d.logger.Debug(
		"Health check round complete",
		"servers", len(results),
		"healthy", counts[domain.HealthStatusHealthy],
		"degraded", counts[domain.HealthStatusDegraded],
		"unhealthy", counts[domain.HealthStatusUnhealthy],
	)
}

// IsValidAddr returns an error if the address is not a valid "host:port" string.
func IsValidAddr(addr string) error {
	return validateAddr(addr)
}

// validateAddr checks if the address is a valid "host:port" string.
func validateAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}

	if port == "" {
		return fmt.Errorf("address missing port")
	}

	// Try parsing port as a number, then as a named port.
	if _, err := strconv.Atoi(port); err != nil {
		if _, err := net.LookupPort("tcp", port); err != nil {
			return fmt.Errorf("invalid address port: %s", port)
		}
	}

	return nil
}
