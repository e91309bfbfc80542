// Package demo provides two sample tools exercising the tagged-variant
// registration path end to end: echo (single-result) and countdown
// (streaming, reporting progress before its terminal result). They exist
// to give the server something to register and a client something to
// call; neither is meant as a real capability.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FreePeak/mcp-framework/internal/mcp"
)

// Tools returns the demo tool set, ready to register with
// mcpserver.Server.Tools.Add.
func Tools() []mcp.Tool {
	return []mcp.Tool{echoTool(), countdownTool()}
}

func echoTool() mcp.Tool {
	schema, _ := json.Marshal(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"message": map[string]interface{}{"type": "string"},
		},
		"required": []string{"message"},
	})

	return mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "echo",
			Title:       "Echo",
			Description: "Returns the message argument unchanged.",
			InputSchema: schema,
		},
		Handler: mcp.SingleResult(func(ctx context.Context, args map[string]interface{}) (*mcp.ToolResult, error) {
			message, _ := args["message"].(string)
			return &mcp.ToolResult{Content: []mcp.Content{mcp.NewTextContent(message)}}, nil
		}),
	}
}

func countdownTool() mcp.Tool {
	schema, _ := json.Marshal(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"from": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"from"},
	})

	return mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "countdown",
			Title:       "Countdown",
			Description: "Counts down from the given integer, reporting progress at each step.",
			InputSchema: schema,
		},
		Timeout: 30 * time.Second,
		Handler: mcp.Streaming(func(ctx context.Context, args map[string]interface{}, progress func(mcp.ToolProgress)) (*mcp.ToolResult, error) {
			from, _ := args["from"].(float64)
			total := from

			for n := from; n > 0; n-- {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(200 * time.Millisecond):
				}
				progress(mcp.ToolProgress{
					Progress: total - n + 1,
					Total:    total,
					Message:  fmt.Sprintf("%d...", int(n)),
				})
			}

			return &mcp.ToolResult{Content: []mcp.Content{mcp.NewTextContent("liftoff")}}, nil
		}),
	}
}
