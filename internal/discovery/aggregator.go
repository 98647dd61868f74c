package discovery

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/filter"
)

const (
	filterKeySearch   = "search"
	filterKeyCategory = "category"
)

var _ contracts.ToolDiscoverer = (*Aggregator)(nil)

// Aggregator merges tool listings from many servers into a single result.
// NewAggregator should be used to create instances of Aggregator.
type Aggregator struct {
	logger      hclog.Logger
	registry    contracts.ServerRegistry
	lister      contracts.ToolLister
	concurrency int
}

// NewAggregator creates an Aggregator which selects servers from the registry and queries them through the lister.
func NewAggregator(
	logger hclog.Logger,
	registry contracts.ServerRegistry,
	lister contracts.ToolLister,
	opt ...Option,
) (*Aggregator, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if registry == nil || reflect.ValueOf(registry).IsNil() {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if lister == nil || reflect.ValueOf(lister).IsNil() {
		return nil, fmt.Errorf("tool lister cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Aggregator{
		logger:      logger.Named("discovery"),
		registry:    registry,
		lister:      lister,
		concurrency: opts.Concurrency,
	}, nil
}

// Discover queries every candidate server concurrently and merges their tools.
// Candidates are the active servers, narrowed to query.ServerIDs when supplied.
// A server that fails to respond contributes no tools but never fails the whole call.
// Tools are ordered by server registration order, then by each server's own listing order.
func (a *Aggregator) Discover(ctx context.Context, query domain.DiscoveryQuery) domain.DiscoveryResult {
	candidates := a.candidates(query.ServerIDs)
	perServer := make([][]domain.Tool, len(candidates))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, server := range candidates {
		g.Go(func() error {
			perServer[i] = a.listTools(ctx, server, query.TenantID)
			return nil
		})
	}

	// Tasks never return errors, Wait is only a barrier.
	_ = g.Wait()

	filters := map[string]string{
		filterKeySearch:   query.Search,
		filterKeyCategory: query.Category,
	}

	result := domain.DiscoveryResult{
		Tools:        []domain.Tool{},
		ServerCounts: make(map[string]int, len(candidates)),
	}

	for i, server := range candidates {
		// The matchers are all infallible, so MatchAll never returns an error here.
		matched, _ := filter.MatchAll(perServer[i], filters, matchers()...)
		result.Tools = append(result.Tools, matched...)
		result.ServerCounts[server.ID] = len(matched)
	}
	result.Total = len(result.Tools)

	a.logger.Debug("Discovered tools", "servers", len(candidates), "tools", result.Total)

	return result
}

// candidates returns the active servers in registration order, restricted to ids when non-empty.
func (a *Aggregator) candidates(ids []string) []domain.Server {
	return slices.DeleteFunc(a.registry.Active(), func(s domain.Server) bool {
		return !s.Active || (len(ids) > 0 && !slices.Contains(ids, s.ID))
	})
}

// listTools fetches and parses the tools of one server, returning none on any failure.
func (a *Aggregator) listTools(ctx context.Context, server domain.Server, tenantID string) []domain.Tool {
	res := a.lister.Discover(ctx, server.ID, tenantID)
	if !res.Success {
		a.logger.Warn("Tool discovery failed", "id", server.ID, "name", server.Name, "error", res.Error)
		return nil
	}

	tools := ParseTools(res.Data)
	for i := range tools {
		tools[i].ServerID = server.ID
		tools[i].ServerName = server.Name
	}

	return tools
}

// ParseTools extracts tool descriptors from a tool listing response.
// It accepts either an object with a "tools" array (optionally nested under "result") or a bare array.
// Entries without a name are skipped.
func ParseTools(data any) []domain.Tool {
	raw := toolEntries(data)
	tools := make([]domain.Tool, 0, len(raw))

	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		name := stringField(m, "name")
		if strings.TrimSpace(name) == "" {
			continue
		}

		tool := domain.Tool{
			Name:        name,
			Description: stringField(m, "description"),
			Categories:  categories(m),
		}
		if schema, ok := m["inputSchema"].(map[string]any); ok {
			tool.InputSchema = schema
		}

		tools = append(tools, tool)
	}

	return tools
}

func toolEntries(data any) []any {
	switch d := data.(type) {
	case []any:
		return d
	case map[string]any:
		if tools, ok := d["tools"].([]any); ok {
			return tools
		}
		if inner, ok := d["result"]; ok {
			return toolEntries(inner)
		}
	}
	return nil
}

// categories collects category tags from the "categories", "category" and "tags" fields, without duplicates.
func categories(m map[string]any) []string {
	var out []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}

	for _, key := range []string{"categories", "category", "tags"} {
		switch v := m[key].(type) {
		case string:
			add(v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
	}

	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// matchers returns the filter options used to match tools in Discover.
func matchers() []filter.Option[domain.Tool] {
	return []filter.Option[domain.Tool]{
		filter.WithMatcher(filterKeySearch, filter.PartialAny(
			func(t domain.Tool) string { return t.Name },
			func(t domain.Tool) string { return t.Description },
		)),
		filter.WithMatcher(filterKeyCategory, filter.Includes(func(t domain.Tool) []string { return t.Categories })),
	}
}
