package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

const (
	HealthStatusUnknown   HealthStatus = "unknown"
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// DomainProbeResult is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainProbeResult domain.ProbeResult

// HealthStatus represents the health verdict for a server as exposed by the API.
type HealthStatus string

// ProbeResult describes the outcome of a single health check.
type ProbeResult struct {
	ServerID  string       `doc:"Server ID"                        json:"serverId"`
	Health    HealthStatus `doc:"Health verdict"                   json:"health"`
	Message   string       `doc:"Detail for the verdict"           json:"message"`
	CheckedAt time.Time    `doc:"Completion time of the check"     json:"checkedAt"`
	Elapsed   string       `doc:"Duration of the check"            json:"elapsed"   example:"12.5ms"`
}

// ProbeServerRequest represents the incoming request to check a single server.
type ProbeServerRequest struct {
	ID string `doc:"ID of the server to check" path:"id"`
}

// ProbeServerResponse represents the wrapped API response for a single health check.
type ProbeServerResponse struct {
	Body ProbeResult
}

// ProbeServersResponse represents the wrapped API response for checking every server.
type ProbeServersResponse struct {
	Body struct {
		Results []ProbeResult `doc:"One result per registered server" json:"results"`
	}
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainProbeResult) ToAPIType() (ProbeResult, error) {
	status, err := parseHealthStatus(d.Health)
	if err != nil {
		return ProbeResult{}, err
	}

	return ProbeResult{
		ServerID:  d.ServerID,
		Health:    status,
		Message:   d.Message,
		CheckedAt: d.CheckedAt,
		Elapsed:   d.Elapsed.String(),
	}, nil
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, prober contracts.HealthProber, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Health"}

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "probeServers",
			Method:      http.MethodGet,
			Path:        "/servers",
			Summary:     "Check the health of every registered server",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ProbeServersResponse, error) {
			return handleProbeServers(ctx, prober)
		},
	)

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "probeServer",
			Method:      http.MethodPost,
			Path:        "/servers/{id}",
			Summary:     "Check the health of a server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ProbeServerRequest) (*ProbeServerResponse, error) {
			return handleProbeServer(ctx, prober, input.ID)
		},
	)
}

// handleProbeServers checks every registered server.
func handleProbeServers(ctx context.Context, prober contracts.HealthProber) (*ProbeServersResponse, error) {
	results := prober.ProbeAll(ctx)

	apiResults := make([]ProbeResult, 0, len(results))
	for _, r := range results {
		data, err := DomainProbeResult(r).ToAPIType()
		if err != nil {
			return nil, err
		}
		apiResults = append(apiResults, data)
	}

	resp := &ProbeServersResponse{}
	resp.Body.Results = apiResults

	return resp, nil
}

// handleProbeServer checks a single server.
// An unknown server is reported as unhealthy in the body rather than as an error.
func handleProbeServer(ctx context.Context, prober contracts.HealthProber, id string) (*ProbeServerResponse, error) {
	data, err := DomainProbeResult(prober.Probe(ctx, id)).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &ProbeServerResponse{Body: data}, nil
}

func parseHealthStatus(status domain.HealthStatus) (HealthStatus, error) {
	switch status {
	case domain.HealthStatusUnknown:
		return HealthStatusUnknown, nil
	case domain.HealthStatusHealthy:
		return HealthStatusHealthy, nil
	case domain.HealthStatusDegraded:
		return HealthStatusDegraded, nil
	case domain.HealthStatusUnhealthy:
		return HealthStatusUnhealthy, nil
	default:
		return "", fmt.Errorf("unknown health status: %s", status)
	}
}
