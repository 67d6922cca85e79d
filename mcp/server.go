package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// ToolFunc executes a tool call. The returned value is marshaled verbatim as
// the tools/call result, so handlers control the full result shape.
type ToolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// ResourceFunc produces the contents for a resources/read of one URI.
type ResourceFunc func(ctx context.Context) (ReadResourceResult, error)

type registeredTool struct {
	def     Tool
	handler ToolFunc
}

type registeredResource struct {
	def     Resource
	handler ResourceFunc
}

// Server dispatches JSON-RPC requests to registered tools and resources.
// Instances are cheap: the transport creates one per inbound request and
// discards it afterwards, while the registered handlers close over the
// process-wide state they share.
type Server struct {
	info      ServerInfo
	logger    *log.Logger
	tools     []registeredTool
	resources []registeredResource
}

// NewServer creates an empty server advertising the given identity.
func NewServer(info ServerInfo, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{info: info, logger: logger}
}

// RegisterTool adds a tool in listing order.
func (s *Server) RegisterTool(def Tool, handler ToolFunc) {
	s.tools = append(s.tools, registeredTool{def: def, handler: handler})
}

// RegisterResource adds a resource in listing order.
func (s *Server) RegisterResource(def Resource, handler ResourceFunc) {
	s.resources = append(s.resources, registeredResource{def: def, handler: handler})
}

// HandleRaw decodes a single JSON-RPC message, dispatches it and encodes the
// reply. The second return value is false for notifications, which produce
// no response body.
func (s *Server) HandleRaw(ctx context.Context, body []byte) ([]byte, bool, error) {
	var req Request
	if err := sonic.Unmarshal(body, &req); err != nil {
		out, merr := sonic.Marshal(&Response{
			JSONRPC: jsonRPCVersion,
			ID:      nil,
			Error:   &RPCError{Code: CodeParseError, Message: "parse error"},
		})
		return out, true, merr
	}

	resp := s.Handle(ctx, &req)
	if resp == nil {
		return nil, false, nil
	}
	out, err := sonic.Marshal(resp)
	return out, true, err
}

// Handle dispatches one request. A message without an id is a notification:
// it is processed but produces no response.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	resp := s.dispatch(ctx, req)
	if req.ID == nil {
		return nil
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "ping":
		return &Response{JSONRPC: jsonRPCVersion, ID: req.ID, Result: map[string]any{}}
	case "tools/list":
		return s.handleListTools(req)
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "resources/list":
		return s.handleListResources(req)
	case "resources/read":
		return s.handleReadResource(ctx, req)
	default:
		return &Response{
			JSONRPC: jsonRPCVersion,
			ID:      req.ID,
			Error:   &RPCError{Code: CodeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)},
		}
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	caps := ServerCapabilities{}
	if len(s.tools) > 0 {
		caps.Tools = &ToolsCapability{ListChanged: true}
	}
	if len(s.resources) > 0 {
		caps.Resources = &ResourcesCapability{ListChanged: true}
	}
	return &Response{
		JSONRPC: jsonRPCVersion,
		ID:      req.ID,
		Result: InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      s.info,
			Capabilities:    caps,
		},
	}
}

func (s *Server) handleListTools(req *Request) *Response {
	tools := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t.def)
	}
	return &Response{JSONRPC: jsonRPCVersion, ID: req.ID, Result: ListToolsResult{Tools: tools}}
}

func (s *Server) handleCallTool(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if err := sonic.Unmarshal(req.Params, &params); err != nil {
		return &Response{
			JSONRPC: jsonRPCVersion,
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInvalidParams, Message: "invalid params"},
		}
	}

	for _, t := range s.tools {
		if t.def.Name != params.Name {
			continue
		}
		result, err := t.handler(ctx, params.Arguments)
		if err != nil {
			s.logger.WithFields(log.Fields{"tool": params.Name, "error": err.Error()}).Warn("tool call failed")
			return &Response{
				JSONRPC: jsonRPCVersion,
				ID:      req.ID,
				Result:  NewErrorResult(fmt.Sprintf("Error: %v", err)),
			}
		}
		return &Response{JSONRPC: jsonRPCVersion, ID: req.ID, Result: result}
	}

	return &Response{
		JSONRPC: jsonRPCVersion,
		ID:      req.ID,
		Error:   &RPCError{Code: CodeInvalidParams, Message: fmt.Sprintf("unknown tool: %s", params.Name)},
	}
}

func (s *Server) handleListResources(req *Request) *Response {
	resources := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		resources = append(resources, r.def)
	}
	return &Response{JSONRPC: jsonRPCVersion, ID: req.ID, Result: ListResourcesResult{Resources: resources}}
}

func (s *Server) handleReadResource(ctx context.Context, req *Request) *Response {
	var params ReadResourceParams
	if err := sonic.Unmarshal(req.Params, &params); err != nil {
		return &Response{
			JSONRPC: jsonRPCVersion,
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInvalidParams, Message: "invalid params"},
		}
	}

	for _, r := range s.resources {
		if r.def.URI != params.URI {
			continue
		}
		result, err := r.handler(ctx)
		if err != nil {
			return &Response{
				JSONRPC: jsonRPCVersion,
				ID:      req.ID,
				Error:   &RPCError{Code: CodeInternalError, Message: err.Error()},
			}
		}
		return &Response{JSONRPC: jsonRPCVersion, ID: req.ID, Result: result}
	}

	return &Response{
		JSONRPC: jsonRPCVersion,
		ID:      req.ID,
		Error:   &RPCError{Code: CodeInvalidParams, Message: fmt.Sprintf("unknown resource: %s", params.URI)},
	}
}
