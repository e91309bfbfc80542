package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FreePeak/mcp-framework/internal/logger"
	"github.com/FreePeak/mcp-framework/internal/mcp"
	"github.com/FreePeak/mcp-framework/pkg/jsonrpc"
)

// Emit receives one outbound item (a *jsonrpc.Response or a
// *jsonrpc.Notification) per call, in emission order. Dispatch calls it
// zero or more times and then returns; this is the Go realization of
// "lazy sequence of outbound items" (no generators in Go), matching the
// teacher's own EventCallback idiom in internal/session.
type Emit func(item interface{})

// Dispatch routes req to its method handler and emits every resulting
// response/notification through emit. It never panics or returns an error
// to the caller: any handler failure is caught and emitted as an
// internal-error response, per the propagation policy of mapping every
// failure onto one of the two error surfaces before it escapes Dispatch.
func (s *Server) Dispatch(ctx context.Context, req *jsonrpc.Request, emit Emit) {
	emit = logOutbound(req, emit)
	defer func() {
		if r := recover(); r != nil {
			emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InternalError(fmt.Sprintf("panic: %v", r))))
		}
	}()

	switch req.Method {
	case "initialize":
		s.handleInitialize(req, emit)
	case "notifications/initialized":
		// Silent: a notification, and even if treated as a request,
		// yields no items.
	case "ping":
		emit(jsonrpc.NewResponse(req.ID, map[string]interface{}{}))
	case "tools/list":
		emit(jsonrpc.NewResponse(req.ID, mcp.ToolsListResult{Tools: toolDefinitions(s.Tools.List())}))
	case "tools/call":
		s.handleToolsCall(ctx, req, emit)
	case "prompts/list":
		emit(jsonrpc.NewResponse(req.ID, mcp.PromptsListResult{Prompts: promptDefinitions(s.Prompts.List())}))
	case "prompts/get":
		s.handlePromptsGet(ctx, req, emit)
	case "resources/list":
		emit(jsonrpc.NewResponse(req.ID, mcp.ResourcesListResult{Resources: resourceDefinitions(s.Resources.List())}))
	case "resources/read":
		s.handleResourcesRead(req, emit)
	case "resources/templates/list":
		emit(jsonrpc.NewResponse(req.ID, mcp.ResourceTemplatesListResult{ResourceTemplates: s.ResourceTemplates.List()}))
	default:
		if req.IsNotification() {
			return
		}
		emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.MethodNotFoundError(req.Method)))
	}
}

// logOutbound wraps emit so every outbound item is paired with the inbound
// request in one structured debug log line, generalizing the teacher's
// logRequestResponse helper (internal/mcp/handlers.go) away from its
// concrete *session.Session dependency: the dispatcher never touches
// sessions, so the correlation key here is the request method and id alone.
func logOutbound(req *jsonrpc.Request, emit Emit) Emit {
	reqJSON, _ := json.Marshal(req)
	return func(item interface{}) {
		respJSON, _ := json.Marshal(item)
		logger.RequestResponseLog(req.Method, "n/a", string(reqJSON), string(respJSON))
		emit(item)
	}
}

func (s *Server) handleInitialize(req *jsonrpc.Request, emit Emit) {
	emit(jsonrpc.NewResponse(req.ID, mcp.InitializeResult{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities: mcp.Capabilities{
			Prompts:   &mcp.PromptsCapability{ListChanged: true},
			Resources: &mcp.ResourcesCapability{Subscribe: false, ListChanged: true},
			Tools:     &mcp.ToolsCapability{ListChanged: true},
		},
		ServerInfo: mcp.ServerInfo{Name: s.Name, Version: s.Version},
	}))
}

type promptsGetParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

func (s *Server) handlePromptsGet(ctx context.Context, req *jsonrpc.Request, emit Emit) {
	var params promptsGetParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParamsError("params must be an object")))
			return
		}
	}

	if params.Name == "" {
		emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParamsError("params.name is required")))
		return
	}

	prompt, ok := s.Prompts.Get(params.Name)
	if !ok {
		emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParamsError(fmt.Sprintf("prompt %q not found", params.Name))))
		return
	}

	args := stringArgs(params.Arguments)

	timeout := prompt.Timeout
	if timeout <= 0 {
		timeout = mcp.DefaultPromptTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan *mcp.PromptsGetResult, 1)
	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("%v", r)
			}
		}()
		result, err := prompt.Handler(callCtx, args)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		emit(jsonrpc.NewResponse(req.ID, result))
	case <-errCh:
		emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InternalError("prompt execution failed")))
	case <-callCtx.Done():
		emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InternalError("prompt execution timed out")))
	}
}

type resourcesReadParams struct {
	URI string `json:"uri"`
}

func (s *Server) handleResourcesRead(req *jsonrpc.Request, emit Emit) {
	var params resourcesReadParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParamsError("params must be an object")))
			return
		}
	}

	if params.URI == "" {
		emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParamsError("params.uri is required")))
		return
	}

	resource, ok := s.Resources.Get(params.URI)
	if !ok {
		emit(jsonrpc.NewErrorResponse(req.ID, jsonrpc.ResourceNotFoundError(map[string]interface{}{"uri": params.URI})))
		return
	}

	emit(jsonrpc.NewResponse(req.ID, mcp.ResourcesReadResult{Contents: []mcp.ResourceData{resource.Data}}))
}

func toolDefinitions(tools []mcp.Tool) []mcp.ToolDefinition {
	out := make([]mcp.ToolDefinition, len(tools))
	for i, t := range tools {
		out[i] = t.Definition
	}
	return out
}

func promptDefinitions(prompts []mcp.Prompt) []mcp.PromptDefinition {
	out := make([]mcp.PromptDefinition, len(prompts))
	for i, p := range prompts {
		out[i] = p.Definition
	}
	return out
}

func resourceDefinitions(resources []mcp.Resource) []mcp.ResourceDefinition {
	out := make([]mcp.ResourceDefinition, len(resources))
	for i, r := range resources {
		out[i] = r.Definition
	}
	return out
}

// stringArgs coerces a decoded JSON object (map[string]interface{}, as
// produced by encoding/json for an `arguments` field of unknown shape)
// into the map[string]string a PromptHandler expects. Non-string values
// are rendered via their JSON encoding rather than dropped.
func stringArgs(raw interface{}) map[string]string {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}

	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		if b, err := json.Marshal(v); err == nil {
			out[k] = string(b)
		}
	}
	return out
}
