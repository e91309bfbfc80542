// Package mcp defines the MCP-level wire types layered on top of the raw
// JSON-RPC envelope: capability negotiation, tool/prompt/resource
// definitions, and the content shapes carried by tool and prompt results.
package mcp

import "encoding/json"

// ProtocolVersion is the MCP protocol version this server speaks.
const ProtocolVersion = "2025-11-25"

// ServerName and ServerVersion are the static identity advertised in
// initialize responses when the host process does not override them.
const (
	ServerName    = "mcp-framework"
	ServerVersion = "1.0.0"
)

// Icon describes an optional icon attached to a tool, prompt, or resource
// definition.
type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes,omitempty"`
	Type  string `json:"type,omitempty"`
}

// ToolDefinition is the wire shape of a registered tool, sans its handler.
type ToolDefinition struct {
	Name         string          `json:"name"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description"`
	InputSchema  json.RawMessage `json:"inputSchema"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`
	Icons        []Icon          `json:"icons,omitempty"`
}

// PromptArgument describes one named argument a prompt accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptDefinition is the wire shape of a registered prompt, sans its
// handler.
type PromptDefinition struct {
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
	Icons       []Icon           `json:"icons,omitempty"`
}

// ResourceDataText is the text variant of a resource's content.
type ResourceDataText struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ResourceDataBinary is the binary (base64) variant of a resource's
// content.
type ResourceDataBinary struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Blob     string `json:"blob"`
}

// ResourceData is implemented by ResourceDataText and ResourceDataBinary.
// Its URI is the resource's registry identity key.
type ResourceData interface {
	ResourceURI() string
}

// ResourceURI implements ResourceData.
func (r ResourceDataText) ResourceURI() string { return r.URI }

// ResourceURI implements ResourceData.
func (r ResourceDataBinary) ResourceURI() string { return r.URI }

// ResourceDefinition is the descriptive metadata of a registered resource;
// its content lives in Data. URI is carried here too (duplicating
// Data.ResourceURI()) because resources/list must return it alongside the
// other descriptive fields without forcing a reader to unwrap Data.
type ResourceDefinition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Icons       []Icon `json:"icons,omitempty"`
}

// ResourceTemplate describes a parameterized resource URI pattern.
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Icons       []Icon `json:"icons,omitempty"`
}

// Content is one piece of content in a tool result, prompt result, or
// resource read. Only the fields relevant to Type are populated.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// NewTextContent builds a text content block.
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// ToolResult is the terminal outcome of a tool invocation.
type ToolResult struct {
	Content           []Content   `json:"content"`
	StructuredContent interface{} `json:"structuredContent,omitempty"`
	IsError           bool        `json:"isError,omitempty"`
}

// NewToolError builds a tool-level error result: a successful JSON-RPC
// envelope whose payload signals the tool itself failed.
func NewToolError(message string) *ToolResult {
	return &ToolResult{
		Content: []Content{NewTextContent(message)},
		IsError: true,
	}
}

// ToolProgress is an intermediate progress update emitted during a
// streaming tool invocation.
type ToolProgress struct {
	Progress float64 `json:"progress"`
	Total    float64 `json:"total,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// PromptMessage is one turn of a rendered prompt.
type PromptMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// PromptsGetResult is the outcome of rendering a prompt.
type PromptsGetResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// ServerInfo identifies this server in the initialize response.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities is the set of features this server advertises.
type Capabilities struct {
	Prompts   *PromptsCapability   `json:"prompts,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Logging   *LoggingCapability   `json:"logging,omitempty"`
}

// ToolsCapability advertises tool list-change notifications.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// PromptsCapability advertises prompt list-change notifications.
type PromptsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ResourcesCapability advertises resource list-change notifications.
// Subscribe is intentionally false in this revision: resources/subscribe
// is not implemented, so the capability is not advertised (see DESIGN.md).
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe"`
	ListChanged bool `json:"listChanged"`
}

// LoggingCapability is reserved; this server does not yet negotiate log
// levels with clients.
type LoggingCapability struct{}

// InitializeResult is the result of the initialize method.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ToolsListResult is the result of tools/list.
type ToolsListResult struct {
	Tools      []ToolDefinition `json:"tools"`
	NextCursor *string          `json:"nextCursor,omitempty"`
}

// PromptsListResult is the result of prompts/list.
type PromptsListResult struct {
	Prompts    []PromptDefinition `json:"prompts"`
	NextCursor *string            `json:"nextCursor,omitempty"`
}

// ResourcesListResult is the result of resources/list.
type ResourcesListResult struct {
	Resources  []ResourceDefinition `json:"resources"`
	NextCursor *string              `json:"nextCursor,omitempty"`
}

// ResourceTemplatesListResult is the result of resources/templates/list.
type ResourceTemplatesListResult struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
	NextCursor        *string            `json:"nextCursor,omitempty"`
}

// ResourcesReadResult is the result of resources/read.
type ResourcesReadResult struct {
	Contents []ResourceData `json:"contents"`
}

// ToolsCallResult is the result of tools/call, doubling as the shape used
// for tool-level error envelopes (IsError true, no JSON-RPC error).
type ToolsCallResult = ToolResult

// ProgressNotificationParams is the payload of notifications/progress.
type ProgressNotificationParams struct {
	ProgressToken interface{} `json:"progressToken"`
	Progress      float64     `json:"progress"`
	Total         float64     `json:"total,omitempty"`
	Message       string      `json:"message,omitempty"`
}

// Notification method names this server emits: the three capability
// list_changed notifications and tool-call progress.
const (
	ToolsListChangedMethod     = "notifications/tools/list_changed"
	PromptsListChangedMethod   = "notifications/prompts/list_changed"
	ResourcesListChangedMethod = "notifications/resources/list_changed"
	ProgressMethod             = "notifications/progress"
)
