package forward

import (
	"fmt"
	"net/http"
	"time"
)

// Options contains optional configuration for the Forwarder.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Timeout bounds each forwarded call, it should be longer than the health probe timeout.
	Timeout time.Duration

	// HTTPClient is shared across calls, each call applies its own timeout.
	HTTPClient *http.Client
}

// Option defines a functional option for configuring Options.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		Timeout:    DefaultTimeout(),
		HTTPClient: &http.Client{},
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

// WithTimeout configures the maximum time to wait for a forwarded call to complete.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("forward timeout must be positive, got %v", timeout)
		}
		o.Timeout = timeout
		return nil
	}
}

// WithHTTPClient configures the HTTP client used for forwarded calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.HTTPClient = client
		return nil
	}
}

// DefaultTimeout is the default time to wait for a forwarded call.
func DefaultTimeout() time.Duration {
	return 30 * time.Second
}
