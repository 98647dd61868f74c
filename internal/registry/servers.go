package registry

import (
	"cmp"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/errors"
	"github.com/mozilla-ai/mcpfleet/internal/filter"
)

const (
	// DefaultPageSize is used when a list request does not specify a positive page size.
	DefaultPageSize = 20

	// MaxPageSize caps the page size of a list request.
	MaxPageSize = 100

	filterKeyActive = "active"
	filterKeyHealth = "health"
	filterKeySearch = "search"
)

var _ contracts.ServerRegistry = (*Registry)(nil)

// entry wraps a stored server with its registration sequence, used for stable ordering.
type entry struct {
	seq    uint64
	server domain.Server
}

// Registry holds the set of known servers and their health state.
// It is safe for concurrent use by multiple goroutines.
// Callers only ever receive copies of stored servers.
type Registry struct {
	logger  hclog.Logger
	mu      sync.RWMutex
	servers map[string]*entry
	seq     uint64
	now     func() time.Time
}

// NewRegistry creates an empty, concurrency-safe Registry.
func NewRegistry(logger hclog.Logger) (*Registry, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Registry{
		logger:  logger.Named("registry"),
		servers: make(map[string]*entry),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register stores a new server, assigning it a fresh ID.
// The base address is normalized by stripping trailing slashes.
// The server starts active, with unknown health.
func (r *Registry) Register(spec domain.ServerSpec) (string, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return "", fmt.Errorf("%w: server name cannot be empty", errors.ErrBadRequest)
	}

	addr := strings.TrimRight(strings.TrimSpace(spec.BaseAddress), "/")
	if addr == "" {
		return "", fmt.Errorf("%w: server base address cannot be empty", errors.ErrBadRequest)
	}

	id := uuid.NewString()
	now := r.now()

	s := domain.Server{
		ID:                id,
		Name:              name,
		Description:       spec.Description,
		Version:           spec.Version,
		BaseAddress:       addr,
		Capabilities:      slices.Clone(spec.Capabilities),
		Metadata:          maps.Clone(spec.Metadata),
		Active:            true,
		Health:            domain.HealthStatusUnknown,
		RegisteredAt:      now,
		LastHealthCheckAt: now,
	}

	r.mu.Lock()
	r.seq++
	r.servers[id] = &entry{seq: r.seq, server: s}
	r.mu.Unlock()

	r.logger.Info("Registered server", "id", id, "name", name, "address", addr)

	return id, nil
}

// Unregister removes the server with the given ID.
// It returns false when the server was not registered, so repeated calls are safe.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	_, ok := r.servers[id]
	delete(r.servers, id)
	r.mu.Unlock()

	if ok {
		r.logger.Info("Unregistered server", "id", id)
	}

	return ok
}

// Get returns a copy of the server with the given ID.
// It returns a boolean to indicate whether the server was found.
func (r *Registry) Get(id string) (domain.Server, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.servers[id]
	if !ok {
		return domain.Server{}, false
	}

	return e.server.Clone(), true
}

// IDs returns the IDs of all registered servers in registration order.
func (r *Registry) IDs() []string {
	entries := r.snapshot()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.server.ID
	}
	return ids
}

// Active returns copies of every active server in registration order.
// Unlike List it is unpaged, so the result comes from one consistent snapshot.
func (r *Registry) Active() []domain.Server {
	entries := r.snapshot()
	servers := make([]domain.Server, 0, len(entries))
	for _, e := range entries {
		if e.server.Active {
			servers = append(servers, e.server)
		}
	}
	return servers
}

// List returns one page of the servers which match every supplied filter, in registration order.
// The page is computed over a snapshot, so writes that happen during the call may not be visible.
func (r *Registry) List(f domain.ListFilter) domain.ServerPage {
	entries := r.snapshot()

	filters := map[string]string{filterKeySearch: f.Search}
	if f.ActiveOnly {
		filters[filterKeyActive] = strconv.FormatBool(true)
	}
	if f.Health != nil {
		filters[filterKeyHealth] = string(*f.Health)
	}

	servers := make([]domain.Server, len(entries))
	for i, e := range entries {
		servers[i] = e.server
	}

	// The matchers are all infallible, so Match never returns an error here.
	matched, _ := filter.MatchAll(servers, filters, matchers()...)

	page, pageSize := normalizePage(f.Page, f.PageSize)
	total := len(matched)

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	return domain.ServerPage{
		Servers: matched[start:end],
		Total:   total,
		HasMore: page*pageSize < total,
	}
}

// UpdateHealth records a health verdict for the server and refreshes its last check time.
// It returns false when the server is not registered.
func (r *Registry) UpdateHealth(id string, status domain.HealthStatus, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.servers[id]
	if !ok {
		return false
	}

	prev := e.server.Health
	e.server.Health = status
	e.server.HealthMessage = message
	e.server.LastHealthCheckAt = r.now()

	if prev != status {
		r.logger.Debug("Server health changed", "id", id, "from", prev, "to", status, "message", message)
	}

	return true
}

// snapshot copies every stored server, ordered by registration sequence.
func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.servers))
	for _, e := range r.servers {
		entries = append(entries, entry{seq: e.seq, server: e.server.Clone()})
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.seq, b.seq)
	})

	return entries
}

// matchers returns the filter options used to match servers in List.
func matchers() []filter.Option[domain.Server] {
	return []filter.Option[domain.Server]{
		filter.WithMatcher(filterKeyActive, filter.EqualsBool(func(s domain.Server) bool { return s.Active })),
		filter.WithMatcher(filterKeyHealth, filter.Equals(func(s domain.Server) string { return string(s.Health) })),
		filter.WithMatcher(filterKeySearch, filter.PartialAny(
			func(s domain.Server) string { return s.Name },
			func(s domain.Server) string { return s.Description },
		)),
	}
}

// normalizePage applies defaults and bounds to 1-indexed pagination values.
func normalizePage(page int, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
