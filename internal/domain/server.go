package domain

import (
	"maps"
	"slices"
	"time"
)

// Server is a registry entry describing one remote RPC server's identity, address, and health.
// Only the health fields and LastHealthCheckAt change after registration.
type Server struct {
	ID                string
	Name              string
	Description       string
	Version           string
	BaseAddress       string
	Capabilities      []string
	Metadata          map[string]any
	Active            bool
	Health            HealthStatus
	HealthMessage     string
	RegisteredAt      time.Time
	LastHealthCheckAt time.Time
}

// ServerSpec is the caller-supplied description of a server to register.
type ServerSpec struct {
	Name         string
	Description  string
	Version      string
	BaseAddress  string
	Capabilities []string
	Metadata     map[string]any
}

// ListFilter restricts and paginates the servers returned from the registry.
// All supplied filters are combined with a logical AND.
type ListFilter struct {
	// ActiveOnly excludes inactive servers when true.
	ActiveOnly bool

	// Health, when non-nil, only includes servers with a matching health status.
	Health *HealthStatus

	// Search matches case-insensitively against a server's name or description.
	Search string

	// Page is 1-indexed.
	Page int

	// PageSize is the maximum number of servers in one page.
	PageSize int
}

// ServerPage is a single page of servers from a List call.
type ServerPage struct {
	Servers []Server
	Total   int
	HasMore bool
}

// Clone returns a copy of the server which shares no mutable state with the original.
func (s Server) Clone() Server {
	c := s
	c.Capabilities = slices.Clone(s.Capabilities)
	c.Metadata = maps.Clone(s.Metadata)
	return c
}

// Eligible reports whether the server may receive forwarded traffic.
// Unknown and degraded servers are eligible, only inactive or unhealthy servers are not.
func (s Server) Eligible() bool {
	return s.Active && s.Health != HealthStatusUnhealthy
}
