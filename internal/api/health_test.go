package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

func TestParseHealthStatus_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    domain.HealthStatus
		expected HealthStatus
	}{
		{"unknown", domain.HealthStatusUnknown, HealthStatusUnknown},
		{"healthy", domain.HealthStatusHealthy, HealthStatusHealthy},
		{"degraded", domain.HealthStatusDegraded, HealthStatusDegraded},
		{"unhealthy", domain.HealthStatusUnhealthy, HealthStatusUnhealthy},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseHealthStatus(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestParseHealthStatus_InvalidCase(t *testing.T) {
	t.Parallel()

	input := domain.HealthStatus("invalid-status")
	_, err := parseHealthStatus(input)
	require.Error(t, err)
	require.EqualError(t, err, fmt.Sprintf("unknown health status: %s", input))
}

func TestHandleProbeServers(t *testing.T) {
	t.Parallel()

	checked := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prober := &fakeProber{
		order: []string{"a", "b"},
		results: map[string]domain.ProbeResult{
			"a": {ServerID: "a", Health: domain.HealthStatusHealthy, Message: "ok", CheckedAt: checked, Elapsed: 1500 * time.Microsecond},
			"b": {ServerID: "b", Health: domain.HealthStatusDegraded, Message: "unexpected status: 503 Service Unavailable", CheckedAt: checked},
		},
	}

	resp, err := handleProbeServers(context.Background(), prober)
	require.NoError(t, err)
	require.Equal(t, []ProbeResult{
		{ServerID: "a", Health: HealthStatusHealthy, Message: "ok", CheckedAt: checked, Elapsed: "1.5ms"},
		{ServerID: "b", Health: HealthStatusDegraded, Message: "unexpected status: 503 Service Unavailable", CheckedAt: checked, Elapsed: "0s"},
	}, resp.Body.Results)
}

func TestHandleProbeServers_Empty(t *testing.T) {
	t.Parallel()

	resp, err := handleProbeServers(context.Background(), &fakeProber{})
	require.NoError(t, err)
	require.NotNil(t, resp.Body.Results)
	require.Empty(t, resp.Body.Results)
}

func TestHandleProbeServer_NotFoundIsUnhealthy(t *testing.T) {
	t.Parallel()

	resp, err := handleProbeServer(context.Background(), &fakeProber{}, "missing")
	require.NoError(t, err)
	require.Equal(t, "missing", resp.Body.ServerID)
	require.Equal(t, HealthStatusUnhealthy, resp.Body.Health)
	require.Equal(t, "server not found: missing", resp.Body.Message)
}
