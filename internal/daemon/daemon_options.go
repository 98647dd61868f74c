package daemon

import (
	"fmt"
	"time"

	"github.com/mozilla-ai/mcpfleet/internal/discovery"
	"github.com/mozilla-ai/mcpfleet/internal/forward"
	"github.com/mozilla-ai/mcpfleet/internal/health"
)

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// ProbeTimeout bounds each server health check.
	ProbeTimeout time.Duration

	// ProbeConcurrency limits how many servers are checked at once when probing every server.
	ProbeConcurrency int

	// ForwardTimeout bounds each forwarded call, it must be longer than ProbeTimeout.
	ForwardTimeout time.Duration

	// DiscoveryConcurrency limits how many servers are queried at once during tool discovery.
	DiscoveryConcurrency int

	// HealthCheckInterval specifies how often every server is probed in the background.
	// Zero disables background health checks, leaving probing to API callers.
	HealthCheckInterval time.Duration
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
// The resulting timeouts are validated together once all options have been applied.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	if options.ForwardTimeout <= options.ProbeTimeout {
		return Options{}, fmt.Errorf(
			"forward timeout (%v) must be longer than probe timeout (%v)",
			options.ForwardTimeout,
			options.ProbeTimeout,
		)
	}

	return options, nil
}

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithProbeTimeout configures the maximum time to wait for a server health check.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("probe timeout must be positive, got %v", timeout)
		}
		o.ProbeTimeout = timeout
		return nil
	}
}

// WithProbeConcurrency configures how many servers may be checked at once.
func WithProbeConcurrency(limit int) Option {
	return func(o *Options) error {
		if limit <= 0 {
			return fmt.Errorf("probe concurrency must be positive, got %d", limit)
		}
		o.ProbeConcurrency = limit
		return nil
	}
}

// WithForwardTimeout configures the maximum time to wait for a forwarded call.
func WithForwardTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("forward timeout must be positive, got %v", timeout)
		}
		o.ForwardTimeout = timeout
		return nil
	}
}

// WithDiscoveryConcurrency configures how many servers may be queried at once during tool discovery.
func WithDiscoveryConcurrency(limit int) Option {
	return func(o *Options) error {
		if limit <= 0 {
			return fmt.Errorf("discovery concurrency must be positive, got %d", limit)
		}
		o.DiscoveryConcurrency = limit
		return nil
	}
}

// WithHealthCheckInterval configures how often every server is probed in the background.
// An interval of zero disables background health checks.
func WithHealthCheckInterval(interval time.Duration) Option {
	return func(o *Options) error {
		if interval < 0 {
			return fmt.Errorf("health check interval cannot be negative, got %v", interval)
		}
		o.HealthCheckInterval = interval
		return nil
	}
}

// DefaultHealthCheckInterval is the default interval for background health checks (disabled).
func DefaultHealthCheckInterval() time.Duration {
	return 0
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		ProbeTimeout:         health.DefaultProbeTimeout(),
		ProbeConcurrency:     health.DefaultProbeConcurrency(),
		ForwardTimeout:       forward.DefaultTimeout(),
		DiscoveryConcurrency: discovery.DefaultConcurrency(),
		HealthCheckInterval:  DefaultHealthCheckInterval(),
	}
}
