package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FreePeak/mcp-framework/internal/mcp"
	"github.com/FreePeak/mcp-framework/pkg/jsonrpc"
)

type toolsCallParams struct {
	Name          string                 `json:"name"`
	Arguments     map[string]interface{} `json:"arguments"`
	ProgressToken interface{}            `json:"progressToken"`
	Meta          struct {
		ProgressToken interface{} `json:"progressToken"`
	} `json:"_meta"`
}

// progressToken returns the client-supplied token, checked first at
// params.progressToken and then at params._meta.progressToken, or nil if
// neither was supplied.
func (p toolsCallParams) progressToken() interface{} {
	if p.ProgressToken != nil {
		return p.ProgressToken
	}
	return p.Meta.ProgressToken
}

// handleToolsCall implements the tool-call engine (spec §4.5): uniform
// treatment of single-result and streaming tools under one deadline, with
// cancellation on timeout and tool-level (not JSON-RPC) error surfacing.
func (s *Server) handleToolsCall(ctx context.Context, req *jsonrpc.Request, emit Emit) {
	var params toolsCallParams
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

	tool, ok := s.Tools.Get(params.Name)
	if !ok {
		emit(jsonrpc.NewResponse(req.ID, mcp.NewToolError(fmt.Sprintf("Tool '%s' not found.", params.Name))))
		return
	}

	token := params.progressToken()

	timeout := tool.Timeout
	if timeout <= 0 {
		timeout = mcp.DefaultToolTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := runTool(callCtx, tool, timeout, params.Arguments, func(p mcp.ToolProgress) {
		if token == nil {
			// Progress without a token is silently dropped: intentional
			// per MCP semantics, not an oversight.
			return
		}
		emit(jsonrpc.NewNotification(mcp.ProgressMethod, mcp.ProgressNotificationParams{
			ProgressToken: token,
			Progress:      p.Progress,
			Total:         p.Total,
			Message:       p.Message,
		}))
	})

	emit(jsonrpc.NewResponse(req.ID, result))
}

// runTool invokes tool.Handler in its own goroutine and races its
// progress/result channels against callCtx's deadline. It returns exactly
// one terminal *mcp.ToolResult: the handler's own result, a tool-level
// error describing why one could not be produced, or a timeout envelope.
// Progress callbacks fire synchronously on the handler's goroutine and are
// forwarded to onProgress without waiting for delivery (fire-and-forget).
func runTool(callCtx context.Context, tool mcp.Tool, timeout time.Duration, args map[string]interface{}, onProgress func(mcp.ToolProgress)) *mcp.ToolResult {
	resultCh := make(chan *mcp.ToolResult, 1)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("%v", r)
			}
		}()
		result, err := tool.Handler.Invoke(callCtx, args, func(p mcp.ToolProgress) {
			select {
			case <-callCtx.Done():
			default:
				onProgress(p)
			}
		})
		if err != nil {
			errCh <- err
			return
		}
		if result == nil {
			errCh <- fmt.Errorf("finished without returning a result")
			return
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case err := <-errCh:
		return mcp.NewToolError(err.Error())
	case <-callCtx.Done():
		return mcp.NewToolError(timeoutMessage(timeout))
	}
}

// timeoutMessage renders the wire-exact timeout text (spec §4.5, matching
// the original Python's f"Tool execution timed out ({tool.timeout}s)."):
// whole seconds, not time.Duration's own String(), which would render
// durations of a minute or more using "1m0s"-style units instead of "60s".
func timeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Tool execution timed out (%ds).", int(timeout.Seconds()))
}
