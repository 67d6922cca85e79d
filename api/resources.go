package api

import (
	"context"

	"kanban-mcp/assets"
	"kanban-mcp/mcp"
)

// Versioned widget resource identifiers. Hosts cache resources by URI, so
// the version suffix changes whenever the bundle does.
const (
	TemplateURI = "ui://widget/kanban-board@v4.html"
	CSSURI      = "ui://widget/kanban-board@v4.css"
	JSURI       = "ui://widget/kanban-board@v4.js"

	mimeSkybridge = "text/html+skybridge"
)

// RegisterWidgetResources registers the widget template and, when their
// assets loaded, the standalone stylesheet and script resources.
func RegisterWidgetResources(srv *mcp.Server, catalog assets.Catalog) {
	componentHTML := catalog.ComponentHTML()

	srv.RegisterResource(mcp.Resource{
		URI:         TemplateURI,
		Name:        "kanban-widget",
		Title:       "Kanban board widget",
		Description: "Component used by the kanban-board tool",
		MimeType:    mimeSkybridge,
		Meta: map[string]any{
			"openai/widgetPrefersBorder": true,
			"openai/widgetDomain":        "https://chatgpt.com",
			"openai/widgetDescription":   "Renders a kanban layout that groups tasks by status.",
			"openai/widgetCSP": map[string]any{
				"connect_domains":  []string{},
				"resource_domains": []string{},
			},
			"openai/widgetAccessible": true,
		},
	}, func(ctx context.Context) (mcp.ReadResourceResult, error) {
		return mcp.ReadResourceResult{Contents: []mcp.ResourceContents{{
			URI:      TemplateURI,
			MimeType: mimeSkybridge,
			Text:     componentHTML,
		}}}, nil
	})

	if catalog.Stylesheet != "" {
		srv.RegisterResource(mcp.Resource{
			URI:      CSSURI,
			Name:     "kanban-widget-css",
			MimeType: "text/css",
		}, func(ctx context.Context) (mcp.ReadResourceResult, error) {
			return mcp.ReadResourceResult{Contents: []mcp.ResourceContents{{
				URI:      CSSURI,
				MimeType: "text/css",
				Text:     catalog.Stylesheet,
			}}}, nil
		})
	}

	if catalog.Script != "" {
		srv.RegisterResource(mcp.Resource{
			URI:      JSURI,
			Name:     "kanban-widget-js",
			MimeType: "text/javascript",
		}, func(ctx context.Context) (mcp.ReadResourceResult, error) {
			return mcp.ReadResourceResult{Contents: []mcp.ResourceContents{{
				URI:      JSURI,
				MimeType: "text/javascript",
				Text:     catalog.Script,
			}}}, nil
		})
	}
}
