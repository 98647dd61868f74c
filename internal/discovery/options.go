package discovery

import "fmt"

// Options contains optional configuration for the Aggregator.
type Options struct {
	// Concurrency limits how many servers are queried at once.
	Concurrency int
}

// Option defines a functional option for configuring Options.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		Concurrency: DefaultConcurrency(),
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

// WithConcurrency configures how many servers may be queried at once.
func WithConcurrency(limit int) Option {
	return func(o *Options) error {
		if limit <= 0 {
			return fmt.Errorf("discovery concurrency must be positive, got %d", limit)
		}
		o.Concurrency = limit
		return nil
	}
}

// DefaultConcurrency is the default number of servers queried at once.
func DefaultConcurrency() int {
	return 16
}
