package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FreePeak/mcp-framework/internal/mcp"
	"github.com/FreePeak/mcp-framework/pkg/jsonrpc"
)

func registerTool(t *testing.T, s *Server, tool mcp.Tool) {
	t.Helper()
	require.NoError(t, s.Tools.Add([]mcp.Tool{tool}, false))
}

func TestToolsCallUnknownToolYieldsToolLevelErrorNotJSONRPCError(t *testing.T) {
	s := New("s", "v")
	params, _ := json.Marshal(map[string]interface{}{"name": "nope", "arguments": map[string]interface{}{}})
	items := collect(s, &jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: float64(1), Method: "tools/call", Params: params})

	require.Len(t, items, 1)
	resp := items[0].(*jsonrpc.Response)
	assert.Nil(t, resp.Error, "a missing tool is a tool-level error, not a JSON-RPC error")

	result := resp.Result.(*mcp.ToolResult)
	assert.True(t, result.IsError)
	assert.Equal(t, "Tool 'nope' not found.", result.Content[0].Text)
}

func TestToolsCallSuccessCarriesResultAndNoProgressToken(t *testing.T) {
	s := New("s", "v")
	registerTool(t, s, mcp.Tool{
		Definition: mcp.ToolDefinition{Name: "get_bitcoin_price", Description: "d"},
		Handler: mcp.SingleResult(func(ctx context.Context, args map[string]interface{}) (*mcp.ToolResult, error) {
			return &mcp.ToolResult{Content: []mcp.Content{mcp.NewTextContent("Bitcoin price is 89,123")}}, nil
		}),
	})

	params, _ := json.Marshal(map[string]interface{}{"name": "get_bitcoin_price", "arguments": map[string]interface{}{}})
	items := collect(s, &jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: float64(3), Method: "tools/call", Params: params})

	require.Len(t, items, 1)
	result := items[0].(*jsonrpc.Response).Result.(*mcp.ToolResult)
	assert.False(t, result.IsError)
	assert.Equal(t, "Bitcoin price is 89,123", result.Content[0].Text)
}

func TestToolsCallTimeoutYieldsToolLevelTimeoutError(t *testing.T) {
	s := New("s", "v")
	registerTool(t, s, mcp.Tool{
		Definition: mcp.ToolDefinition{Name: "slow", Description: "d"},
		Timeout:    10 * time.Millisecond,
		Handler: mcp.SingleResult(func(ctx context.Context, args map[string]interface{}) (*mcp.ToolResult, error) {
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
			}
			return &mcp.ToolResult{Content: []mcp.Content{mcp.NewTextContent("too late")}}, nil
		}),
	})

	params, _ := json.Marshal(map[string]interface{}{"name": "slow", "arguments": map[string]interface{}{}})
	items := collect(s, &jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: float64(4), Method: "tools/call", Params: params})

	require.Len(t, items, 1)
	result := items[0].(*jsonrpc.Response).Result.(*mcp.ToolResult)
	assert.True(t, result.IsError)
	assert.Equal(t, "Tool execution timed out (0s).", result.Content[0].Text)
}

// TestTimeoutMessageUsesSecondsNotGoDurationString covers the wire
// contract in spec §4.5: the timeout message renders as "<N>s", not
// time.Duration's own String() (which would print "1m0s" for the 60s
// default timeout, or "1m30s" for 90s).
func TestTimeoutMessageUsesSecondsNotGoDurationString(t *testing.T) {
	assert.Equal(t, "Tool execution timed out (60s).", timeoutMessage(mcp.DefaultToolTimeout))
	assert.Equal(t, "Tool execution timed out (90s).", timeoutMessage(90*time.Second))
	assert.Equal(t, "Tool execution timed out (0s).", timeoutMessage(10*time.Millisecond))
}

func TestToolsCallStreamingEmitsProgressBeforeResultWhenTokenSupplied(t *testing.T) {
	s := New("s", "v")
	registerTool(t, s, mcp.Tool{
		Definition: mcp.ToolDefinition{Name: "countdown", Description: "d"},
		Handler: mcp.Streaming(func(ctx context.Context, args map[string]interface{}, progress func(mcp.ToolProgress)) (*mcp.ToolResult, error) {
			progress(mcp.ToolProgress{Progress: 1, Total: 2})
			progress(mcp.ToolProgress{Progress: 2, Total: 2})
			return &mcp.ToolResult{Content: []mcp.Content{mcp.NewTextContent("done")}}, nil
		}),
	})

	params, _ := json.Marshal(map[string]interface{}{"name": "countdown", "arguments": map[string]interface{}{}, "progressToken": "tok-1"})
	items := collect(s, &jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: float64(5), Method: "tools/call", Params: params})

	require.Len(t, items, 3, "two progress notifications then exactly one terminal result")

	for _, item := range items[:2] {
		note := item.(*jsonrpc.Notification)
		assert.Equal(t, mcp.ProgressMethod, note.Method)
		p := note.Params.(mcp.ProgressNotificationParams)
		assert.Equal(t, "tok-1", p.ProgressToken)
	}

	result := items[2].(*jsonrpc.Response).Result.(*mcp.ToolResult)
	assert.Equal(t, "done", result.Content[0].Text)
}

func TestToolsCallStreamingDropsProgressWithoutToken(t *testing.T) {
	s := New("s", "v")
	registerTool(t, s, mcp.Tool{
		Definition: mcp.ToolDefinition{Name: "countdown", Description: "d"},
		Handler: mcp.Streaming(func(ctx context.Context, args map[string]interface{}, progress func(mcp.ToolProgress)) (*mcp.ToolResult, error) {
			progress(mcp.ToolProgress{Progress: 1, Total: 2})
			return &mcp.ToolResult{Content: []mcp.Content{mcp.NewTextContent("done")}}, nil
		}),
	})

	params, _ := json.Marshal(map[string]interface{}{"name": "countdown", "arguments": map[string]interface{}{}})
	items := collect(s, &jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: float64(6), Method: "tools/call", Params: params})

	require.Len(t, items, 1, "progress without a token must be dropped, only the terminal result is emitted")
}

func TestToolsCallRuntimeErrorYieldsToolLevelError(t *testing.T) {
	s := New("s", "v")
	registerTool(t, s, mcp.Tool{
		Definition: mcp.ToolDefinition{Name: "boom", Description: "d"},
		Handler: mcp.SingleResult(func(ctx context.Context, args map[string]interface{}) (*mcp.ToolResult, error) {
			return nil, assertError{"kaboom"}
		}),
	})

	params, _ := json.Marshal(map[string]interface{}{"name": "boom", "arguments": map[string]interface{}{}})
	items := collect(s, &jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: float64(7), Method: "tools/call", Params: params})

	require.Len(t, items, 1)
	resp := items[0].(*jsonrpc.Response)
	assert.Nil(t, resp.Error)
	result := resp.Result.(*mcp.ToolResult)
	assert.True(t, result.IsError)
	assert.Equal(t, "kaboom", result.Content[0].Text)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
