package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

func TestHandleDiscoverTools(t *testing.T) {
	t.Parallel()

	disc := &fakeDiscoverer{result: domain.DiscoveryResult{
		Tools: []domain.Tool{
			{
				Name:        "now",
				Description: "Current time",
				ServerID:    "a",
				ServerName:  "time",
				InputSchema: map[string]any{"type": "object"},
				Categories:  []string{"time"},
			},
		},
		Total:        1,
		ServerCounts: map[string]int{"a": 1, "b": 0},
	}}

	resp, err := handleDiscoverTools(context.Background(), disc, &ToolsRequest{
		ServerIDs:    []string{"a", "b"},
		Search:       "time",
		Category:     "time",
		TenantHeader: "acme",
	})
	require.NoError(t, err)
	require.Equal(t, Tools{
		Tools: []Tool{{
			Name:        "now",
			Description: "Current time",
			ServerID:    "a",
			ServerName:  "time",
			InputSchema: map[string]any{"type": "object"},
			Categories:  []string{"time"},
		}},
		Total:        1,
		ServerCounts: map[string]int{"a": 1, "b": 0},
	}, resp.Body)

	require.Len(t, disc.received, 1)
	require.Equal(t, domain.DiscoveryQuery{
		ServerIDs: []string{"a", "b"},
		Search:    "time",
		Category:  "time",
		TenantID:  "acme",
	}, disc.received[0])
}

func TestHandleDiscoverTools_Empty(t *testing.T) {
	t.Parallel()

	resp, err := handleDiscoverTools(context.Background(), &fakeDiscoverer{}, &ToolsRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.Body.Tools)
	require.NotNil(t, resp.Body.ServerCounts)
	require.Zero(t, resp.Body.Total)
}
