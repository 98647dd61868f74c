package daemon

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mozilla-ai/mcpfleet/internal/api"
)

// APIOptions contains optional configuration for the API server.
// NewAPIOptions should be used to create instances of APIOptions.
type APIOptions struct {
	// CORS configuration for cross-origin requests.
	CORS CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// CORSConfig holds the cross-origin settings an operator can change from the daemon config.
// Methods and headers are fixed by the routes the API serves.
type CORSConfig struct {
	Enabled bool

	// AllowCredentials is forced off when AllowOrigins contains "*".
	AllowCredentials bool

	// AllowOrigins lists the origins that may call the API, "*" allows any.
	AllowOrigins []string

	// MaxAge is how long browsers may cache a preflight response.
	MaxAge time.Duration
}

// APIOption defines a functional option for configuring APIOptions.
type APIOption func(*APIOptions) error

// NewAPIOptions creates APIOptions with defaults, then applies options in order.
func NewAPIOptions(opts ...APIOption) (APIOptions, error) {
	options := APIOptions{
		CORS: CORSConfig{
			AllowCredentials: DefaultCORSAllowCredentials(),
			MaxAge:           DefaultCORSMaxAge(),
		},
		ShutdownTimeout: DefaultAPIShutdownTimeout(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return APIOptions{}, err
		}
	}

	return options, nil
}

// WithCORSEnabled enables or disables CORS support.
func WithCORSEnabled(enabled bool) APIOption {
	return func(o *APIOptions) error {
		o.CORS.Enabled = enabled
		return nil
	}
}

// WithCORSAllowOrigins sets the allowed origins for CORS requests.
func WithCORSAllowOrigins(origins []string) APIOption {
	return func(o *APIOptions) error {
		o.CORS.AllowOrigins = origins
		return nil
	}
}

// WithCORSAllowCredentials sets whether credentials are allowed in CORS requests.
func WithCORSAllowCredentials(allowed bool) APIOption {
	return func(o *APIOptions) error {
		o.CORS.AllowCredentials = allowed
		return nil
	}
}

// WithCORSMaxAge sets how long browsers can cache CORS preflight responses.
func WithCORSMaxAge(maxAge time.Duration) APIOption {
	return func(o *APIOptions) error {
		if maxAge < 0 {
			return fmt.Errorf("CORS max age must not be negative, got %v", maxAge)
		}
		o.CORS.MaxAge = maxAge
		return nil
	}
}

// WithShutdownTimeout configures how long to wait for graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) APIOption {
	return func(o *APIOptions) error {
		if timeout <= 0 {
			return fmt.Errorf("shutdown timeout must be positive, got %v", timeout)
		}
		o.ShutdownTimeout = timeout
		return nil
	}
}

// DefaultCORSAllowCredentials returns the default CORS 'allow credentials' setting.
func DefaultCORSAllowCredentials() bool {
	return false
}

// DefaultCORSMaxAge returns the default time browsers can cache preflight responses.
func DefaultCORSMaxAge() time.Duration {
	return 5 * time.Minute
}

// DefaultAPIShutdownTimeout is the default time allowed for API server graceful shutdown.
func DefaultAPIShutdownTimeout() time.Duration {
	return 5 * time.Second
}

// corsAllowedMethods are the methods the API routes are registered with.
func corsAllowedMethods() []string {
	return []string{http.MethodGet, http.MethodPost, http.MethodDelete}
}

// corsAllowedHeaders are the non-safelisted request headers the API reads.
func corsAllowedHeaders() []string {
	return []string{"Content-Type", api.HeaderTenantID}
}

// corsExposedHeaders are the response headers set by the API that browsers may read.
func corsExposedHeaders() []string {
	return []string{api.HeaderErrorType}
}
