package api

import (
	"context"
	"sync"

	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

// fakeProber returns canned probe results.
type fakeProber struct {
	results map[string]domain.ProbeResult
	order   []string
}

func (f *fakeProber) Probe(_ context.Context, id string) domain.ProbeResult {
	if r, ok := f.results[id]; ok {
		return r
	}
	return domain.ProbeResult{ServerID: id, Health: domain.HealthStatusUnhealthy, Message: "server not found: " + id}
}

func (f *fakeProber) ProbeAll(ctx context.Context) []domain.ProbeResult {
	out := make([]domain.ProbeResult, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.Probe(ctx, id))
	}
	return out
}

// fakeForwarder records envelopes and replies with a canned result.
type fakeForwarder struct {
	mu       sync.Mutex
	result   domain.CallResult
	received []domain.CallEnvelope
}

func (f *fakeForwarder) Forward(_ context.Context, env domain.CallEnvelope) domain.CallResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.received = append(f.received, env)
	res := f.result
	res.ServerID = env.ServerID
	return res
}

func (f *fakeForwarder) last() domain.CallEnvelope {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.received[len(f.received)-1]
}

// fakeDiscoverer records queries and replies with a canned result.
type fakeDiscoverer struct {
	mu       sync.Mutex
	result   domain.DiscoveryResult
	received []domain.DiscoveryQuery
}

func (f *fakeDiscoverer) Discover(_ context.Context, q domain.DiscoveryQuery) domain.DiscoveryResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.received = append(f.received, q)
	return f.result
}
