package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpfleet/internal/contracts"
	"github.com/mozilla-ai/mcpfleet/internal/domain"
)

// DomainCallResult is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainCallResult domain.CallResult

// CallRequestBody is the method call to forward.
type CallRequestBody struct {
	Method string         `doc:"RPC method to invoke" example:"tools/call" json:"method"           minLength:"1"`
	Params map[string]any `doc:"RPC method parameters"                     json:"params,omitempty"`
}

// CallRequest represents the incoming API request to forward a call to a server.
type CallRequest struct {
	ID           string `doc:"ID of the target server"                      path:"id"`
	TenantID     string `doc:"Tenant on whose behalf the call is made"      query:"tenantId"`
	TenantHeader string `doc:"Tenant, used when tenantId is not in the URL" header:"Mcpfleet-Tenant-Id"`
	Body         CallRequestBody
}

// CallResult is the normalized outcome of a forwarded call.
type CallResult struct {
	Success  bool           `doc:"Whether the call succeeded"                         json:"success"`
	ServerID string         `doc:"ID of the target server"                            json:"serverId"`
	Data     any            `doc:"Server result, present on success"                  json:"data,omitempty"`
	Error    string         `doc:"Failure description, present on failure"           json:"error,omitempty"`
	Payload  map[string]any `doc:"Full server response when it reported an RPC error" json:"payload,omitempty"`
}

// CallResponse represents the wrapped API response for a forwarded call.
// Failures are described in the body, and classified in the error type header.
type CallResponse struct {
	ErrorType string `header:"Mcpfleet-Error-Type"`
	Body      CallResult
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainCallResult) ToAPIType() (CallResult, error) {
	return CallResult{
		Success:  d.Success,
		ServerID: d.ServerID,
		Data:     d.Data,
		Error:    d.Error,
		Payload:  d.Payload,
	}, nil
}

// RegisterCallRoutes sets up the call forwarding API endpoint.
func RegisterCallRoutes(routerAPI huma.API, forwarder contracts.CallForwarder, apiPathPrefix string) {
	callsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Calls"}

	huma.Register(
		callsAPI,
		huma.Operation{
			OperationID: "callServer",
			Method:      http.MethodPost,
			Path:        "/{id}/call",
			Summary:     "Forward a method call to a server",
			Description: "Always answers 200 with a result describing success or failure of the forwarded call.",
			Tags:        tags,
		},
		func(ctx context.Context, input *CallRequest) (*CallResponse, error) {
			return handleCall(ctx, forwarder, input)
		},
	)
}

// handleCall forwards a single call and reports its outcome.
func handleCall(ctx context.Context, forwarder contracts.CallForwarder, input *CallRequest) (*CallResponse, error) {
	res := forwarder.Forward(ctx, domain.CallEnvelope{
		ServerID: input.ID,
		Method:   input.Body.Method,
		Params:   input.Body.Params,
		TenantID: tenantFrom(input.TenantID, input.TenantHeader),
	})

	data, err := DomainCallResult(res).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &CallResponse{
		ErrorType: string(errorTypeFor(res.Err)),
		Body:      data,
	}, nil
}
