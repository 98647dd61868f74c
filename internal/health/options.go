package health

import (
	"fmt"
	"net/http"
	"time"
)

// Options contains optional configuration for the Prober.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Timeout bounds each individual liveness request.
	Timeout time.Duration

	// Concurrency limits how many servers ProbeAll checks at once.
	Concurrency int

	// HTTPClient is shared across probes, each probe applies its own timeout.
	HTTPClient *http.Client
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		Timeout:     DefaultProbeTimeout(),
		Concurrency: DefaultProbeConcurrency(),
		HTTPClient:  &http.Client{},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithTimeout configures the maximum time to wait for a single liveness response.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("probe timeout must be positive, got %v", timeout)
		}
		o.Timeout = timeout
		return nil
	}
}

// WithConcurrency configures how many servers may be probed at once by ProbeAll.
func WithConcurrency(limit int) Option {
	return func(o *Options) error {
		if limit <= 0 {
			return fmt.Errorf("probe concurrency must be positive, got %d", limit)
		}
		o.Concurrency = limit
		return nil
	}
}

// WithHTTPClient configures the HTTP client used for liveness requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.HTTPClient = client
		return nil
	}
}

// DefaultProbeTimeout is the default time to wait for a liveness response.
func DefaultProbeTimeout() time.Duration {
	return 10 * time.Second
}

// DefaultProbeConcurrency is the default number of concurrent probes in ProbeAll.
func DefaultProbeConcurrency() int {
	return 8
}
