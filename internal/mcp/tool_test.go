package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleResultHandlerIgnoresProgress(t *testing.T) {
	h := SingleResult(func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
		return &ToolResult{Content: []Content{NewTextContent("done")}}, nil
	})

	var progressCalls int
	res, err := h.Invoke(context.Background(), nil, func(ToolProgress) { progressCalls++ })
	require.NoError(t, err)
	assert.Equal(t, "done", res.Content[0].Text)
	assert.Equal(t, 0, progressCalls)
}

func TestStreamingHandlerReportsProgressBeforeResult(t *testing.T) {
	h := Streaming(func(ctx context.Context, args map[string]interface{}, progress func(ToolProgress)) (*ToolResult, error) {
		progress(ToolProgress{Progress: 1, Total: 2})
		progress(ToolProgress{Progress: 2, Total: 2})
		return &ToolResult{Content: []Content{NewTextContent("finished")}}, nil
	})

	var seen []float64
	res, err := h.Invoke(context.Background(), nil, func(p ToolProgress) { seen = append(seen, p.Progress) })
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, seen)
	assert.Equal(t, "finished", res.Content[0].Text)
}

func TestToolIDExtractsDefinitionName(t *testing.T) {
	tool := Tool{Definition: ToolDefinition{Name: "get_price"}}
	assert.Equal(t, "get_price", ToolID(tool))
}

func TestResourceIDExtractsDataURI(t *testing.T) {
	r := Resource{Data: ResourceDataText{URI: "file:///a.txt", Text: "hi"}}
	assert.Equal(t, "file:///a.txt", ResourceID(r))
}
