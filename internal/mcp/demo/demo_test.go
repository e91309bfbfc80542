package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FreePeak/mcp-framework/internal/mcp"
)

func TestEchoToolReturnsMessageUnchanged(t *testing.T) {
	tools := Tools()
	echo := findTool(t, tools, "echo")

	result, err := echo.Handler.Invoke(context.Background(), map[string]interface{}{"message": "hello"}, func(mcp.ToolProgress) {
		t.Fatal("echo must not report progress")
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Content[0].Text)
}

func TestCountdownToolReportsProgressThenLiftoff(t *testing.T) {
	tools := Tools()
	countdown := findTool(t, tools, "countdown")

	var steps int
	result, err := countdown.Handler.Invoke(context.Background(), map[string]interface{}{"from": float64(2)}, func(mcp.ToolProgress) {
		steps++
	})
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Equal(t, "liftoff", result.Content[0].Text)
}

func findTool(t *testing.T, tools []mcp.Tool, name string) mcp.Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Definition.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %q not found", name)
	return mcp.Tool{}
}
