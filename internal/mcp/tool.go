package mcp

import (
	"context"
	"time"
)

// DefaultToolTimeout is the tool invocation deadline used when a
// registered tool does not set its own.
const DefaultToolTimeout = 60 * time.Second

// DefaultPromptTimeout is the prompt invocation deadline used when a
// registered prompt does not set its own.
const DefaultPromptTimeout = 3 * time.Second

// ToolHandler is the contract a tagged-variant tool constructor produces.
// Reimplements the source's runtime isinstance dispatch between "a single
// awaitable result" and "a lazy sequence of progress/result items" as an
// explicit tagged variant fixed at registration time: SingleResult and
// Streaming each return a distinct concrete type satisfying this
// interface, so the call engine never inspects a return value's runtime
// type.
type ToolHandler interface {
	Invoke(ctx context.Context, args map[string]interface{}, progress func(ToolProgress)) (*ToolResult, error)
}

type singleResultHandler func(ctx context.Context, args map[string]interface{}) (*ToolResult, error)

// Invoke implements ToolHandler. A single-result handler never calls
// progress.
func (h singleResultHandler) Invoke(ctx context.Context, args map[string]interface{}, _ func(ToolProgress)) (*ToolResult, error) {
	return h(ctx, args)
}

// SingleResult registers a tool whose invocation produces exactly one
// terminal ToolResult and never reports progress.
func SingleResult(fn func(ctx context.Context, args map[string]interface{}) (*ToolResult, error)) ToolHandler {
	return singleResultHandler(fn)
}

type streamingHandler func(ctx context.Context, args map[string]interface{}, progress func(ToolProgress)) (*ToolResult, error)

// Invoke implements ToolHandler.
func (h streamingHandler) Invoke(ctx context.Context, args map[string]interface{}, progress func(ToolProgress)) (*ToolResult, error) {
	return h(ctx, args, progress)
}

// Streaming registers a tool whose invocation may report zero or more
// ToolProgress updates via the progress callback before returning its
// terminal ToolResult. Calling progress after the handler returns has no
// effect on the wire: the engine stops consuming progress once the
// handler's return is observed.
func Streaming(fn func(ctx context.Context, args map[string]interface{}, progress func(ToolProgress)) (*ToolResult, error)) ToolHandler {
	return streamingHandler(fn)
}

// Tool pairs a wire-visible definition with the handler that implements
// it and the deadline the call engine enforces against that handler.
type Tool struct {
	Definition ToolDefinition
	Handler    ToolHandler
	Timeout    time.Duration
}

// ToolID is the registry identity key for a Tool: its definition name.
func ToolID(t Tool) string { return t.Definition.Name }

// PromptHandler renders a prompt's messages from its arguments.
type PromptHandler func(ctx context.Context, args map[string]string) (*PromptsGetResult, error)

// Prompt pairs a wire-visible definition with its render function and
// invocation deadline.
type Prompt struct {
	Definition PromptDefinition
	Handler    PromptHandler
	Timeout    time.Duration
}

// PromptID is the registry identity key for a Prompt: its definition name.
func PromptID(p Prompt) string { return p.Definition.Name }

// Resource pairs a resource's descriptive metadata with its content. Its
// registry identity key is Data's URI, not Definition.Name: resources are
// keyed by URI on the wire (resources/read takes params.uri).
type Resource struct {
	Definition ResourceDefinition
	Data       ResourceData
}

// ResourceID is the registry identity key for a Resource: its data's URI.
func ResourceID(r Resource) string { return r.Data.ResourceURI() }

// ResourceTemplateID is the registry identity key for a ResourceTemplate:
// its name.
func ResourceTemplateID(t ResourceTemplate) string { return t.Name }
