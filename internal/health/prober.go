package health

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/errors"
)

// Path is appended to a server's base address to build its liveness endpoint.
const Path = "/health"

// maxDrainBytes bounds how much of a liveness response body is read before closing it.
const maxDrainBytes = 64 << 10

var _ contracts.HealthProber = (*Prober)(nil)

// Prober checks liveness of registered servers and records each verdict in the registry.
// NewProber should be used to create instances of Prober.
type Prober struct {
	logger      hclog.Logger
	registry    contracts.ServerRegistry
	client      *http.Client
	timeout     time.Duration
	concurrency int
}

// NewProber creates a Prober backed by the given registry.
func NewProber(logger hclog.Logger, registry contracts.ServerRegistry, opt ...Option) (*Prober, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if registry == nil || reflect.ValueOf(registry).IsNil() {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Prober{
		logger:      logger.Named("health"),
		registry:    registry,
		client:      opts.HTTPClient,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
	}, nil
}

// Probe checks a single server and updates its health in the registry before returning.
// Unknown servers are reported unhealthy without any network call.
func (p *Prober) Probe(ctx context.Context, id string) domain.ProbeResult {
	start := time.Now()

	server, ok := p.registry.Get(id)
	if !ok {
		return domain.ProbeResult{
			ServerID:  id,
			Health:    domain.HealthStatusUnhealthy,
			Message:   fmt.Sprintf("%s: %s", errors.ErrServerNotFound, id),
			CheckedAt: start.UTC(),
			Elapsed:   time.Since(start),
		}
	}

	status, message := p.check(ctx, server.BaseAddress+Path)

	if !p.registry.UpdateHealth(id, status, message) {
		// Unregistered while the probe was in flight.
		p.logger.Debug("Server removed during health check", "id", id)
	}

	result := domain.ProbeResult{
		ServerID:  id,
		Health:    status,
		Message:   message,
		CheckedAt: time.Now().UTC(),
		Elapsed:   time.Since(start),
	}

	if status == domain.HealthStatusHealthy {
		p.logger.Debug("Health check succeeded", "id", id, "name", server.Name, "elapsed", result.Elapsed)
	} else {
		p.logger.Warn("Health check failed", "id", id, "name", server.Name, "status", status, "message", message)
	}

	return result
}

// ProbeAll checks every currently registered server concurrently.
// It returns exactly one result per server, in registration order.
// A failure probing one server never affects the results for the others.
func (p *Prober) ProbeAll(ctx context.Context) []domain.ProbeResult {
	ids := p.registry.IDs()
	results := make([]domain.ProbeResult, len(ids))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			results[i] = p.Probe(ctx, id)
			return nil
		})
	}

	// Tasks never return errors, Wait is only a barrier.
	_ = g.Wait()

	return results
}

// check performs a bounded GET against the liveness endpoint and classifies the outcome.
// Only the configured timeout ends the request, cancellation of ctx does not.
func (p *Prober) check(ctx context.Context, url string) (domain.HealthStatus, string) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return domain.HealthStatusUnhealthy, fmt.Sprintf("%s: %s", errors.ErrTransport, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return domain.HealthStatusUnhealthy, errors.ErrTimeout.Error()
		}
		return domain.HealthStatusUnhealthy, fmt.Sprintf("%s: %s", errors.ErrTransport, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return domain.HealthStatusHealthy, "ok"
	}

	return domain.HealthStatusDegraded, fmt.Sprintf("unexpected status: %s", resp.Status)
}
