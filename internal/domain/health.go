package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	HealthStatusUnknown   HealthStatus = "unknown"
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthStatus represents the internal verdict about a server's availability.
type HealthStatus string

// ProbeResult is the outcome of a single liveness check against one server.
type ProbeResult struct {
	ServerID  string
	Health    HealthStatus
	Message   string
	CheckedAt time.Time
	Elapsed   time.Duration
}

// ParseHealthStatus converts a string into a known HealthStatus (case-insensitive).
func ParseHealthStatus(s string) (HealthStatus, error) {
	status := HealthStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case HealthStatusUnknown, HealthStatusHealthy, HealthStatusDegraded, HealthStatusUnhealthy:
		return status, nil
	default:
		return "", fmt.Errorf("unknown health status: %s", s)
	}
}

// String implements fmt.Stringer.
func (h HealthStatus) String() string {
	return string(h)
}
