package forward

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
	"github.com/mozilla-ai/mcpfleet/internal/errors"
)

const (
	// EntryPoint is the final path segment of every server's RPC endpoint.
	EntryPoint = "mcp"

	// TenantQueryParam is the query parameter carrying the caller's tenant.
	TenantQueryParam = "tenantId"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 10 << 20
)

var (
	_ contracts.CallForwarder = (*Forwarder)(nil)
	_ contracts.ToolLister    = (*Forwarder)(nil)
)

// rpcRequest is the JSON-RPC message sent to a server.
type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      string         `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

// Forwarder relays method calls to registered servers.
// NewForwarder should be used to create instances of Forwarder.
type Forwarder struct {
	logger   hclog.Logger
	registry contracts.ServerRegistry
	client   *http.Client
	timeout  time.Duration
}

// NewForwarder creates a Forwarder which resolves servers through the given registry.
func NewForwarder(logger hclog.Logger, registry contracts.ServerRegistry, opt ...Option) (*Forwarder, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if registry == nil || reflect.ValueOf(registry).IsNil() {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Forwarder{
		logger:   logger.Named("forward"),
		registry: registry,
		client:   opts.HTTPClient,
		timeout:  opts.Timeout,
	}, nil
}

// Forward sends a single method call to the server named in the envelope.
// It never returns a Go error: every failure is described by the returned result.
// Servers which are missing, inactive or unhealthy are rejected without any network call.
func (f *Forwarder) Forward(ctx context.Context, env domain.CallEnvelope) domain.CallResult {
	server, ok := f.registry.Get(env.ServerID)
	if !ok {
		return failure(env.ServerID, fmt.Errorf("%w: %s", errors.ErrServerNotFound, env.ServerID))
	}

	if !server.Eligible() {
		return failure(env.ServerID, fmt.Errorf(
			"%w: %s (active=%t, health=%s)",
			errors.ErrServerUnavailable,
			env.ServerID,
			server.Active,
			server.Health,
		))
	}

	logger := f.logger.With("id", server.ID, "name", server.Name, "method", env.Method)

	endpoint, err := Endpoint(server, env.TenantID)
	if err != nil {
		return failure(env.ServerID, fmt.Errorf("%w: %w", errors.ErrTransport, err))
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      uuid.NewString(),
		Method:  env.Method,
		Params:  paramsOrEmpty(env.Params),
	})
	if err != nil {
		return failure(env.ServerID, fmt.Errorf("%w: encoding request: %w", errors.ErrBadRequest, err))
	}

	start := time.Now()
	result := f.send(ctx, env.ServerID, endpoint, body)

	if result.Success {
		logger.Debug("Forwarded call", "elapsed", time.Since(start))
	} else {
		logger.Warn("Forwarded call failed", "elapsed", time.Since(start), "error", result.Error)
	}

	return result
}

// Discover requests the tool listing of a single server.
func (f *Forwarder) Discover(ctx context.Context, id string, tenantID string) domain.CallResult {
	return f.Forward(ctx, domain.CallEnvelope{
		ServerID: id,
		Method:   string(mcp.MethodToolsList),
		TenantID: tenantID,
	})
}

// Endpoint builds the RPC endpoint for the server, adding the tenant as a query parameter when present.
func Endpoint(server domain.Server, tenantID string) (string, error) {
	u, err := url.Parse(server.BaseAddress)
	if err != nil {
		return "", fmt.Errorf("invalid base address %q: %w", server.BaseAddress, err)
	}

	u = u.JoinPath("api", server.Name, EntryPoint)

	if tenantID = strings.TrimSpace(tenantID); tenantID != "" {
		q := u.Query()
		q.Set(TenantQueryParam, tenantID)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// send performs the HTTP exchange and normalizes the response.
// Only the forward timeout ends the request, cancellation of ctx does not.
func (f *Forwarder) send(ctx context.Context, serverID string, endpoint string, body []byte) domain.CallResult {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(serverID, fmt.Errorf("%w: %w", errors.ErrTransport, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return failure(serverID, fmt.Errorf("%w: no response within %v", errors.ErrTimeout, f.timeout))
		}
		return failure(serverID, fmt.Errorf("%w: %w", errors.ErrTransport, err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if stdErrors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return failure(serverID, fmt.Errorf("%w: no response within %v", errors.ErrTimeout, f.timeout))
		}
		return failure(serverID, fmt.Errorf("%w: reading response: %w", errors.ErrTransport, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(serverID, fmt.Errorf(
			"%w: %s: %s",
			errors.ErrUpstreamStatus,
			resp.Status,
			strings.TrimSpace(string(raw)),
		))
	}

	return decode(serverID, raw)
}

// decode interprets a successful response body.
// A present error field wins over a result field, and a body with neither is returned whole.
func decode(serverID string, raw []byte) domain.CallResult {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return failure(serverID, fmt.Errorf("%w: %w", errors.ErrInvalidResponse, err))
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return domain.CallResult{Success: true, ServerID: serverID, Data: payload}
	}

	if rpcErr, ok := obj["error"]; ok && rpcErr != nil {
		res := failure(serverID, fmt.Errorf("%w: %s", errors.ErrProtocol, errorMessage(rpcErr)))
		res.Payload = obj
		return res
	}

	if result, ok := obj["result"]; ok {
		return domain.CallResult{Success: true, ServerID: serverID, Data: result}
	}

	return domain.CallResult{Success: true, ServerID: serverID, Data: obj}
}

// errorMessage extracts a readable message from a JSON-RPC error value.
func errorMessage(v any) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func failure(serverID string, err error) domain.CallResult {
	return domain.CallResult{
		Success:  false,
		ServerID: serverID,
		Error:    err.Error(),
		Err:      err,
	}
}

func paramsOrEmpty(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	return params
}
