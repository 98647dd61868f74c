package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpfleet/internal/discovery"
	"github.com/mozilla-ai/mcpfleet/internal/forward"
	"github.com/mozilla-ai/mcpfleet/internal/health"
)

func TestNewOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts, err := NewOptions()
	require.NoError(t, err)
	require.Equal(t, health.DefaultProbeTimeout(), opts.ProbeTimeout)
	require.Equal(t, health.DefaultProbeConcurrency(), opts.ProbeConcurrency)
	require.Equal(t, forward.DefaultTimeout(), opts.ForwardTimeout)
	require.Equal(t, discovery.DefaultConcurrency(), opts.DiscoveryConcurrency)
	require.Zero(t, opts.HealthCheckInterval)
	require.Greater(t, opts.ForwardTimeout, opts.ProbeTimeout)
}

func TestNewOptions_Overrides(t *testing.T) {
	t.Parallel()

	opts, err := NewOptions(
		nil,
		WithProbeTimeout(2*time.Second),
		WithForwardTimeout(5*time.Second),
		WithProbeConcurrency(3),
		WithDiscoveryConcurrency(4),
		WithHealthCheckInterval(time.Minute),
		WithAPIOptions(WithCORSEnabled(true)),
	)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, opts.ProbeTimeout)
	require.Equal(t, 5*time.Second, opts.ForwardTimeout)
	require.Equal(t, 3, opts.ProbeConcurrency)
	require.Equal(t, 4, opts.DiscoveryConcurrency)
	require.Equal(t, time.Minute, opts.HealthCheckInterval)
	require.Len(t, opts.APIOptions, 1)
}

func TestNewOptions_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "zero probe timeout",
			opts:    []Option{WithProbeTimeout(0)},
			wantErr: "probe timeout must be positive, got 0s",
		},
		{
			name:    "negative forward timeout",
			opts:    []Option{WithForwardTimeout(-time.Second)},
			wantErr: "forward timeout must be positive, got -1s",
		},
		{
			name:    "zero probe concurrency",
			opts:    []Option{WithProbeConcurrency(0)},
			wantErr: "probe concurrency must be positive, got 0",
		},
		{
			name:    "zero discovery concurrency",
			opts:    []Option{WithDiscoveryConcurrency(0)},
			wantErr: "discovery concurrency must be positive, got 0",
		},
		{
			name:    "negative interval",
			opts:    []Option{WithHealthCheckInterval(-time.Second)},
			wantErr: "health check interval cannot be negative, got -1s",
		},
		{
			name:    "forward timeout equal to probe timeout",
			opts:    []Option{WithProbeTimeout(5 * time.Second), WithForwardTimeout(5 * time.Second)},
			wantErr: "forward timeout (5s) must be longer than probe timeout (5s)",
		},
		{
			name:    "forward timeout shorter than default probe timeout",
			opts:    []Option{WithForwardTimeout(time.Second)},
			wantErr: "forward timeout (1s) must be longer than probe timeout (10s)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewOptions(tc.opts...)
			require.EqualError(t, err, tc.wantErr)
		})
	}
}
