package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// HeaderTenantID is the HTTP header which may carry the caller's tenant when no tenantId query parameter is given.
const HeaderTenantID = "Mcpfleet-Tenant-Id"

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(
	router huma.API,
	registry contracts.ServerRegistry,
	prober contracts.HealthProber,
	forwarder contracts.CallForwarder,
	discoverer contracts.ToolDiscoverer,
) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if registry == nil || reflect.ValueOf(registry).IsNil() {
		return "", fmt.Errorf("registry cannot be nil")
	}
	if prober == nil || reflect.ValueOf(prober).IsNil() {
		return "", fmt.Errorf("prober cannot be nil")
	}
	if forwarder == nil || reflect.ValueOf(forwarder).IsNil() {
		return "", fmt.Errorf("forwarder cannot be nil")
	}
	if discoverer == nil || reflect.ValueOf(discoverer).IsNil() {
		return "", fmt.Errorf("discoverer cannot be nil")
	}

	// Extract API version from the router's OpenAPI spec.
	apiVersionID := router.OpenAPI().Info.Version

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", apiVersionID)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterServerRoutes(versionedGroup, registry, "/servers")
	RegisterCallRoutes(versionedGroup, forwarder, "/servers")
	RegisterHealthRoutes(versionedGroup, prober, "/health")
	RegisterToolRoutes(versionedGroup, discoverer, "/tools")

	return apiPathPrefix, nil
}

// tenantFrom prefers the tenant from the query string, falling back to the header value.
func tenantFrom(query string, header string) string {
	if query != "" {
		return query
	}
	return header
}
