package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/errors"
)

func TestRegisterRoutes_NilDependencies(t *testing.T) {
	t.Parallel()

	router := humachi.New(chi.NewMux(), huma.DefaultConfig("test", APIVersion))
	reg := testRegistry(t)
	prober := &fakeProber{}
	fwd := &fakeForwarder{}
	disc := &fakeDiscoverer{}

	_, err := RegisterRoutes(nil, reg, prober, fwd, disc)
	require.EqualError(t, err, "router cannot be nil")

	_, err = RegisterRoutes(router, nil, prober, fwd, disc)
	require.EqualError(t, err, "registry cannot be nil")

	_, err = RegisterRoutes(router, reg, nil, fwd, disc)
	require.EqualError(t, err, "prober cannot be nil")

	_, err = RegisterRoutes(router, reg, prober, nil, disc)
	require.EqualError(t, err, "forwarder cannot be nil")

	_, err = RegisterRoutes(router, reg, prober, fwd, nil)
	require.EqualError(t, err, "discoverer cannot be nil")
}

func TestRegisterRoutes_ServeHTTP(t *testing.T) {
	t.Parallel()

	mux := chi.NewMux()
	router := humachi.New(mux, huma.DefaultConfig("test", APIVersion))

	reg := testRegistry(t)
	unavailable := fmt.Errorf("%w: x (active=true, health=unhealthy)", errors.ErrServerUnavailable)
	fwd := &fakeForwarder{result: domain.CallResult{Error: unavailable.Error(), Err: unavailable}}
	disc := &fakeDiscoverer{result: domain.DiscoveryResult{Tools: []domain.Tool{}, ServerCounts: map[string]int{}}}

	prefix, err := RegisterRoutes(router, reg, &fakeProber{}, fwd, disc)
	require.NoError(t, err)
	require.Equal(t, "/api/v1", prefix)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	// Register.
	resp, err := http.Post(srv.URL+"/api/v1/servers", "application/json", strings.NewReader(`{"name":"time","baseAddress":"http://localhost:9000/"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	_ = resp.Body.Close()
	require.NotEmpty(t, created.ID)

	// List.
	resp, err = http.Get(srv.URL + "/api/v1/servers?search=TIME")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page ServersPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	_ = resp.Body.Close()
	require.Equal(t, 1, page.Total)
	require.Equal(t, "http://localhost:9000", page.Servers[0].BaseAddress)

	// Call, with the tenant supplied as a header.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/servers/"+created.ID+"/call", strings.NewReader(`{"method":"ping"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTenantID, "acme")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, string(ServerUnavailable), resp.Header.Get(HeaderErrorType))
	var call CallResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&call))
	_ = resp.Body.Close()
	require.False(t, call.Success)
	require.Equal(t, created.ID, call.ServerID)
	require.Contains(t, call.Error, "server unavailable")
	require.Equal(t, "acme", fwd.last().TenantID)

	// Discover, with server IDs as a comma separated list.
	resp, err = http.Get(srv.URL + "/api/v1/tools?serverIds=a,b&category=time")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	require.Len(t, disc.received, 1)
	require.Equal(t, []string{"a", "b"}, disc.received[0].ServerIDs)
	require.Equal(t, "time", disc.received[0].Category)

	// Unregister.
	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/servers/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var removed struct {
		Existed bool `json:"existed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&removed))
	_ = resp.Body.Close()
	require.True(t, removed.Existed)
}
