package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// DaemonConfig represents daemon-specific configuration that can be stored in .mcpfleet.toml.
// Every field is optional; unset fields fall back to the daemon defaults.
type DaemonConfig struct {
	// Address to bind the API server (e.g., "0.0.0.0:8090")
	// Maps to CLI flag --addr
	Addr *string `json:"addr,omitempty" toml:"addr,omitempty" yaml:"addr,omitempty"`

	// ProbeTimeout bounds each health check.
	ProbeTimeout *Duration `json:"probeTimeout,omitempty" toml:"probe_timeout,omitempty" yaml:"probe_timeout,omitempty"`

	// ForwardTimeout bounds each forwarded call, it must be longer than the probe timeout.
	ForwardTimeout *Duration `json:"forwardTimeout,omitempty" toml:"forward_timeout,omitempty" yaml:"forward_timeout,omitempty"`

	// HealthCheckInterval is how often every server is probed in the background, zero disables it.
	HealthCheckInterval *Duration `json:"healthCheckInterval,omitempty" toml:"health_check_interval,omitempty" yaml:"health_check_interval,omitempty"`

	// ProbeConcurrency limits concurrent health checks when probing every server.
	ProbeConcurrency *int `json:"probeConcurrency,omitempty" toml:"probe_concurrency,omitempty" yaml:"probe_concurrency,omitempty"`

	// DiscoveryConcurrency limits concurrent tool listings during discovery.
	DiscoveryConcurrency *int `json:"discoveryConcurrency,omitempty" toml:"discovery_concurrency,omitempty" yaml:"discovery_concurrency,omitempty"`

	// ShutdownTimeout for graceful API server shutdown.
	ShutdownTimeout *Duration `json:"shutdownTimeout,omitempty" toml:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`

	// Nested CORS configuration for cross-origin requests.
	CORS *CORSConfigSection `json:"cors,omitempty" toml:"cors,omitempty" yaml:"cors,omitempty"`
}

// CORSConfigSection contains Cross-Origin Resource Sharing (CORS) configuration.
type CORSConfigSection struct {
	// Enable CORS support
	Enable *bool `json:"enable,omitempty" toml:"enable,omitempty" yaml:"enable,omitempty"`

	// Allowed origins for CORS requests
	Origins []string `json:"allowOrigins,omitempty" toml:"allow_origins,omitempty" yaml:"allow_origins,omitempty"`

	// Allow credentials in CORS requests
	Credentials *bool `json:"allowCredentials,omitempty" toml:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty"`

	// Maximum age for CORS preflight cache
	MaxAge *Duration `json:"maxAge,omitempty" toml:"max_age,omitempty" yaml:"max_age,omitempty"`
}

// Duration is a custom time.Duration type that provides improved marshaling.
type Duration time.Duration

// EnableOrDefault returns the configured enable value, or the supplied default when unset.
func (c *CORSConfigSection) EnableOrDefault(defaultEnable bool) bool {
	if c == nil || c.Enable == nil {
		return defaultEnable
	}
	return *c.Enable
}

// Validate validates CORS configuration values.
func (c *CORSConfigSection) Validate() error {
	var validationErrors []error

	for _, origin := range c.Origins {
		// See: https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Headers/Access-Control-Allow-Origin#sect
		if origin == "*" {
			continue
		}

		if origin == "" {
			validationErrors = append(validationErrors, fmt.Errorf("CORS origin cannot be empty"))
			continue
		}

		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			validationErrors = append(validationErrors, fmt.Errorf("invalid origin: %s", origin))
		}
	}

	if c.MaxAge != nil && *c.MaxAge <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("CORS max age must be positive"))
	}

	return errors.Join(validationErrors...)
}

// Validate validates daemon configuration values, including nested sections.
func (d *DaemonConfig) Validate() error {
	if d == nil {
		return fmt.Errorf("no daemon configuration found")
	}

	var validationErrors []error

	if d.Addr != nil && !isValidAddr(*d.Addr) {
		validationErrors = append(validationErrors, NewErrInvalidValue("addr", *d.Addr))
	}

	timeouts := []struct {
		key   string
		value *Duration
	}{
		{"probe_timeout", d.ProbeTimeout},
		{"forward_timeout", d.ForwardTimeout},
		{"shutdown_timeout", d.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.value != nil && *t.value <= 0 {
			validationErrors = append(validationErrors, fmt.Errorf("%s must be positive, got %s", t.key, t.value.String()))
		}
	}

	if d.HealthCheckInterval != nil && *d.HealthCheckInterval < 0 {
		validationErrors = append(validationErrors, fmt.Errorf(
			"health_check_interval cannot be negative, got %s",
			d.HealthCheckInterval.String(),
		))
	}

	if d.ProbeTimeout != nil && d.ForwardTimeout != nil && *d.ForwardTimeout <= *d.ProbeTimeout {
		validationErrors = append(validationErrors, fmt.Errorf(
			"forward_timeout (%s) must be longer than probe_timeout (%s)",
			d.ForwardTimeout.String(),
			d.ProbeTimeout.String(),
		))
	}

	if d.ProbeConcurrency != nil && *d.ProbeConcurrency <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("probe_concurrency must be positive, got %d", *d.ProbeConcurrency))
	}

	if d.DiscoveryConcurrency != nil && *d.DiscoveryConcurrency <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf(
			"discovery_concurrency must be positive, got %d",
			*d.DiscoveryConcurrency,
		))
	}

	if d.CORS != nil {
		if err := d.CORS.Validate(); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("CORS configuration error: %w", err))
		}
	}

	return errors.Join(validationErrors...)
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d *Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// String returns a human-readable string representation of the duration.
func (d *Duration) String() string {
	if d == nil {
		return ""
	}

	duration := time.Duration(*d)
	if duration == 0 {
		return "0s"
	}

	// List of duration units in descending order.
	units := []struct {
		unit   time.Duration
		suffix string
	}{
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
		{time.Millisecond, "ms"},
		{time.Microsecond, "µs"},
		{time.Nanosecond, "ns"},
	}

	for _, u := range units {
		if duration%u.unit == 0 {
			return fmt.Sprintf("%d%s", duration/u.unit, u.suffix)
		}
	}

	// Fallback to nanoseconds if no exact match.
	return fmt.Sprintf("%dns", duration)
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// isValidAddr performs basic validation for host:port format.
func isValidAddr(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	if port == "" {
		return false
	}

	if strings.ContainsAny(host, " \t\n\r") || len(host) > 253 {
		return false
	}

	return true
}
