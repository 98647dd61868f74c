package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

// DomainTool is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainTool domain.Tool

// Tool describes a tool advertised by a registered server.
type Tool struct {
	Name        string         `doc:"Name of the tool"                  json:"name"`
	Description string         `doc:"Description of what the tool does" json:"description,omitempty"`
	ServerID    string         `doc:"ID of the owning server"           json:"serverId"`
	ServerName  string         `doc:"Name of the owning server"         json:"serverName"`
	InputSchema map[string]any `doc:"Input parameters schema"           json:"inputSchema,omitempty"`
	Categories  []string       `doc:"Category tags"                     json:"categories,omitempty"`
}

// ToolsRequest represents the incoming API request to discover tools across servers.
type ToolsRequest struct {
	ServerIDs    []string `doc:"Restrict discovery to these server IDs"        query:"serverIds"`
	Search       string   `doc:"Case-insensitive match on name or description" query:"search"`
	Category     string   `doc:"Case-insensitive exact category match"         query:"category"`
	TenantID     string   `doc:"Tenant on whose behalf discovery is made"      query:"tenantId"`
	TenantHeader string   `doc:"Tenant, used when tenantId is not in the URL"  header:"Mcpfleet-Tenant-Id"`
}

// Tools is the merged discovery result.
type Tools struct {
	Tools        []Tool         `doc:"Matching tools, ordered by server then listing order" json:"tools"`
	Total        int            `doc:"Number of matching tools"                             json:"total"`
	ServerCounts map[string]int `doc:"Matching tools per queried server"                    json:"serverCounts"`
}

// ToolsResponse represents the wrapped API response for tool discovery.
type ToolsResponse struct {
	Body Tools
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainTool) ToAPIType() (Tool, error) {
	return Tool{
		Name:        d.Name,
		Description: d.Description,
		ServerID:    d.ServerID,
		ServerName:  d.ServerName,
		InputSchema: d.InputSchema,
		Categories:  d.Categories,
	}, nil
}

// RegisterToolRoutes sets up the tool discovery API endpoint.
func RegisterToolRoutes(routerAPI huma.API, discoverer contracts.ToolDiscoverer, apiPathPrefix string) {
	toolsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Tools"}

	huma.Register(
		toolsAPI,
		huma.Operation{
			OperationID: "discoverTools",
			Method:      http.MethodGet,
			Summary:     "Discover tools across active servers",
			Tags:        tags,
		},
		func(ctx context.Context, input *ToolsRequest) (*ToolsResponse, error) {
			return handleDiscoverTools(ctx, discoverer, input)
		},
	)
}

// handleDiscoverTools merges the tools of every selected server.
func handleDiscoverTools(ctx context.Context, discoverer contracts.ToolDiscoverer, input *ToolsRequest) (*ToolsResponse, error) {
	result := discoverer.Discover(ctx, domain.DiscoveryQuery{
		ServerIDs: input.ServerIDs,
		Search:    input.Search,
		Category:  input.Category,
		TenantID:  tenantFrom(input.TenantID, input.TenantHeader),
	})

	tools := make([]Tool, 0, len(result.Tools))
	for _, t := range result.Tools {
		data, err := DomainTool(t).ToAPIType()
		if err != nil {
			return nil, err
		}
		tools = append(tools, data)
	}

	counts := result.ServerCounts
	if counts == nil {
		counts = map[string]int{}
	}

	resp := &ToolsResponse{}
	resp.Body = Tools{
		Tools:        tools,
		Total:        result.Total,
		ServerCounts: counts,
	}

	return resp, nil
}
