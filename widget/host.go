package widget

import "context"

// Host is the capability surface the widget consumes. CallTool is the one
// required operation; the hint accessors may all return nothing and the
// resolver tolerates any subset being absent.
type Host interface {
	// CallTool invokes a server tool and returns its decoded result.
	CallTool(ctx context.Context, name string, args map[string]any) (map[string]any, error)

	// ToolOutput returns the most recent tool result known to the host, or
	// nil.
	ToolOutput() any

	// ToolOutputs returns past tool results, oldest first, or nil.
	ToolOutputs() []any

	// ToolResponseMetadata returns the metadata the host captured alongside
	// the last response, or nil.
	ToolResponseMetadata() map[string]any

	// WidgetState returns the host-persisted widget state object, or nil.
	WidgetState() map[string]any
}
