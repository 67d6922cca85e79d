// Package mcp implements the small slice of the Model Context Protocol this
// server speaks: the initialize handshake, tool listing and invocation, and
// resource listing and reads, all as JSON-RPC 2.0 over a single request body.
package mcp

import "encoding/json"

const (
	// ProtocolVersion is the MCP revision advertised on initialize.
	ProtocolVersion = "2024-11-05"

	jsonRPCVersion = "2.0"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is an inbound JSON-RPC message. A nil ID marks a notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is the JSON-RPC reply to a single request.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError carries a JSON-RPC error code and message.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServerInfo identifies the server during the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
}

type ServerCapabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type ResourcesCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// Tool describes a registered tool in tools/list output.
type Tool struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	InputSchema any             `json:"inputSchema"`
	Annotations ToolAnnotations `json:"annotations,omitempty"`
	Meta        map[string]any  `json:"_meta,omitempty"`
}

type ToolAnnotations struct {
	ReadOnlyHint    bool `json:"readOnlyHint"`
	DestructiveHint bool `json:"destructiveHint"`
	IdempotentHint  bool `json:"idempotentHint"`
}

type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams is the payload of a tools/call request.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// TextContent is a human-readable content block inside a tool result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ErrorResult wraps a tool failure as an isError result rather than a
// protocol-level error, so hosts surface the message to the model.
type ErrorResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError"`
}

// NewErrorResult builds an isError tool result from a message.
func NewErrorResult(message string) ErrorResult {
	return ErrorResult{
		Content: []TextContent{{Type: "text", Text: message}},
		IsError: true,
	}
}

// Resource describes a registered resource in resources/list output.
type Resource struct {
	URI         string         `json:"uri"`
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	MimeType    string         `json:"mimeType,omitempty"`
	Meta        map[string]any `json:"_meta,omitempty"`
}

type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

type ReadResourceParams struct {
	URI string `json:"uri"`
}

type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}
