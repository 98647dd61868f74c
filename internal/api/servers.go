package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/errors"
)

// DomainServer is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainServer domain.Server

// Server is the API representation of a registered server.
type Server struct {
	ID                string         `doc:"Unique server ID"                           json:"id"`
	Name              string         `doc:"Server name, used in the RPC endpoint path" json:"name"`
	Description       string         `doc:"Human-readable description"                 json:"description,omitempty"`
	Version           string         `doc:"Server version"                             json:"version,omitempty"`
	BaseAddress       string         `doc:"Base URL of the server"                     json:"baseAddress"`
	Capabilities      []string       `doc:"Capability tags"                            json:"capabilities"`
	Metadata          map[string]any `doc:"Free-form metadata"                         json:"metadata,omitempty"`
	Active            bool           `doc:"Whether the server accepts traffic"         json:"active"`
	Health            HealthStatus   `doc:"Last health verdict"                        json:"health"`
	HealthMessage     string         `doc:"Detail for the last health verdict"         json:"healthMessage,omitempty"`
	RegisteredAt      time.Time      `doc:"Registration time"                          json:"registeredAt"`
	LastHealthCheckAt time.Time      `doc:"Time of the last health check"              json:"lastHealthCheckAt"`
}

// ServerRegistration is the request body used to register a server.
type ServerRegistration struct {
	Name         string         `doc:"Server name"                 example:"time"                  json:"name"                   minLength:"1"`
	Description  string         `doc:"Human-readable description"                                  json:"description,omitempty"`
	Version      string         `doc:"Server version"              example:"1.0.0"                 json:"version,omitempty"`
	BaseAddress  string         `doc:"Base URL of the server"      example:"http://localhost:9000" json:"baseAddress"            minLength:"1"`
	Capabilities []string       `doc:"Capability tags"                                             json:"capabilities,omitempty"`
	Metadata     map[string]any `doc:"Free-form metadata"                                          json:"metadata,omitempty"`
}

// RegisterServerRequest represents the incoming API request to register a server.
type RegisterServerRequest struct {
	Body ServerRegistration
}

// RegisterServerResponse represents the wrapped API response for a registration.
type RegisterServerResponse struct {
	Body struct {
		ID      string `doc:"Generated server ID" json:"id"`
		Message string `doc:"Outcome description" json:"message"`
	}
}

// ListServersRequest represents the incoming API request to list servers.
type ListServersRequest struct {
	Active   bool   `doc:"Only include active servers"                      query:"active"`
	Health   string `doc:"Only include servers with this health status"     query:"health"   example:"healthy"`
	Search   string `doc:"Case-insensitive match on name or description"    query:"search"`
	Page     int    `doc:"1-indexed page number"                            query:"page"     default:"1"`
	PageSize int    `doc:"Maximum number of servers per page (capped at 100)" query:"pageSize" default:"20"`
}

// ServersPage is a single page of servers.
type ServersPage struct {
	Servers []Server `doc:"Servers on this page"                  json:"servers"`
	Total   int      `doc:"Number of servers matching the filter" json:"total"`
	HasMore bool     `doc:"Whether a further page exists"         json:"hasMore"`
}

// ListServersResponse represents the wrapped API response for a list of servers.
type ListServersResponse struct {
	Body ServersPage
}

// ServerRequest represents an incoming API request addressing a single server.
type ServerRequest struct {
	ID string `doc:"Server ID" path:"id"`
}

// ServerResponse represents the wrapped API response for a single server.
type ServerResponse struct {
	Body Server
}

// UnregisterServerResponse represents the wrapped API response for removing a server.
type UnregisterServerResponse struct {
	Body struct {
		Existed bool `doc:"Whether the server was registered before the call" json:"existed"`
	}
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainServer) ToAPIType() (Server, error) {
	health, err := parseHealthStatus(d.Health)
	if err != nil {
		return Server{}, err
	}

	capabilities := d.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}

	return Server{
		ID:                d.ID,
		Name:              d.Name,
		Description:       d.Description,
		Version:           d.Version,
		BaseAddress:       d.BaseAddress,
		Capabilities:      capabilities,
		Metadata:          d.Metadata,
		Active:            d.Active,
		Health:            health,
		HealthMessage:     d.HealthMessage,
		RegisteredAt:      d.RegisteredAt,
		LastHealthCheckAt: d.LastHealthCheckAt,
	}, nil
}

// RegisterServerRoutes sets up server registry API endpoints.
func RegisterServerRoutes(routerAPI huma.API, registry contracts.ServerRegistry, apiPathPrefix string) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID:   "registerServer",
			Method:        http.MethodPost,
			Summary:       "Register a server",
			Tags:          tags,
			DefaultStatus: http.StatusCreated,
		},
		func(_ context.Context, input *RegisterServerRequest) (*RegisterServerResponse, error) {
			return handleRegisterServer(registry, input.Body)
		},
	)

	// Add route at the root of the group (no path specified).
	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List registered servers",
			Tags:        tags,
		},
		func(_ context.Context, input *ListServersRequest) (*ListServersResponse, error) {
			return handleListServers(registry, input)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServer",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get a registered server",
			Tags:        tags,
		},
		func(_ context.Context, input *ServerRequest) (*ServerResponse, error) {
			return handleGetServer(registry, input.ID)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "unregisterServer",
			Method:      http.MethodDelete,
			Path:        "/{id}",
			Summary:     "Unregister a server",
			Tags:        tags,
		},
		func(_ context.Context, input *ServerRequest) (*UnregisterServerResponse, error) {
			return handleUnregisterServer(registry, input.ID)
		},
	)
}

// handleRegisterServer adds a server to the registry.
func handleRegisterServer(registry contracts.ServerRegistry, reg ServerRegistration) (*RegisterServerResponse, error) {
	id, err := registry.Register(domain.ServerSpec{
		Name:         reg.Name,
		Description:  reg.Description,
		Version:      reg.Version,
		BaseAddress:  reg.BaseAddress,
		Capabilities: reg.Capabilities,
		Metadata:     reg.Metadata,
	})
	if err != nil {
		return nil, err
	}

	resp := &RegisterServerResponse{}
	resp.Body.ID = id
	resp.Body.Message = fmt.Sprintf("server %q registered", reg.Name)

	return resp, nil
}

// handleListServers returns one page of servers matching the request filters.
func handleListServers(registry contracts.ServerRegistry, input *ListServersRequest) (*ListServersResponse, error) {
	filter := domain.ListFilter{
		ActiveOnly: input.Active,
		Search:     input.Search,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	if input.Health != "" {
		status, err := domain.ParseHealthStatus(input.Health)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrBadRequest, err)
		}
		filter.Health = &status
	}

	page := registry.List(filter)

	servers := make([]Server, 0, len(page.Servers))
	for _, s := range page.Servers {
		data, err := DomainServer(s).ToAPIType()
		if err != nil {
			return nil, err
		}
		servers = append(servers, data)
	}

	resp := &ListServersResponse{}
	resp.Body = ServersPage{
		Servers: servers,
		Total:   page.Total,
		HasMore: page.HasMore,
	}

	return resp, nil
}

// handleGetServer returns a single server.
func handleGetServer(registry contracts.ServerRegistry, id string) (*ServerResponse, error) {
	s, ok := registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrServerNotFound, id)
	}

	data, err := DomainServer(s).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &ServerResponse{Body: data}, nil
}

// handleUnregisterServer removes a server, succeeding whether or not it was registered.
func handleUnregisterServer(registry contracts.ServerRegistry, id string) (*UnregisterServerResponse, error) {
	resp := &UnregisterServerResponse{}
	resp.Body.Existed = registry.Unregister(id)

	return resp, nil
}
