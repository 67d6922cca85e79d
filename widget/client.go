package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// HTTPHost is a Host backed by a JSON-RPC connection to the board server's
// tool endpoint. The server treats every POST as its own session, so the
// client holds no connection state beyond the hints it records from
// responses.
type HTTPHost struct {
	endpoint string
	client   *http.Client
	logger   *log.Logger

	mu          sync.Mutex
	lastOutput  any
	outputs     []any
	lastMeta    map[string]any
	widgetState map[string]any
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHTTPHost creates a host talking to the given /mcp endpoint.
func NewHTTPHost(endpoint string, logger *log.Logger) *HTTPHost {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &HTTPHost{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Initialize performs the MCP handshake. It doubles as the readiness probe
// during bootstrap: a reachable, protocol-speaking server answers it.
func (h *HTTPHost) Initialize(ctx context.Context) error {
	_, err := h.call(ctx, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo": map[string]string{
			"name":    "kanban-widget",
			"version": "1.0.0",
		},
		"capabilities": map[string]any{},
	})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// CallTool invokes a tool and records the result and its metadata as host
// hints for later resolution passes.
func (h *HTTPHost) CallTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	raw, err := h.call(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		h.logger.WithFields(log.Fields{"tool": name, "error": err.Error()}).Debug("tool call failed")
		return nil, err
	}

	var result map[string]any
	if err := sonic.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode tool result: %w", err)
	}

	h.mu.Lock()
	h.lastOutput = result
	h.outputs = append(h.outputs, result)
	if meta, ok := result["_meta"].(map[string]any); ok {
		h.lastMeta = meta
		if state, ok := meta["openai/widgetState"].(map[string]any); ok {
			h.widgetState = state
		}
	}
	h.mu.Unlock()

	return result, nil
}

func (h *HTTPHost) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	payload, err := sonic.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var decoded rpcResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	return decoded.Result, nil
}

func (h *HTTPHost) ToolOutput() any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastOutput
}

func (h *HTTPHost) ToolOutputs() []any {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]any, len(h.outputs))
	copy(out, h.outputs)
	return out
}

func (h *HTTPHost) ToolResponseMetadata() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastMeta
}

func (h *HTTPHost) WidgetState() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.widgetState
}
