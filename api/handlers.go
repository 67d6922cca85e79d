package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"kanban-mcp/assets"
	"kanban-mcp/mcp"
	"kanban-mcp/storage"
)

// Oversize payloads are rejected with 413 before the handler runs.
const mcpRequestBodyLimit = "2M"

var serverInfo = mcp.ServerInfo{
	Name:    "kanban-sample-server",
	Version: "1.0.0",
}

// Register wires up all routes on the provided Echo instance. The task store
// and asset catalog are shared; everything protocol-scoped is rebuilt per
// request.
func Register(e *echo.Echo, store *storage.TaskStore, catalog assets.Catalog, logger *log.Logger) {
	e.GET("/health", health())
	e.POST("/mcp", handleMCP(store, catalog, logger), middleware.BodyLimit(mcpRequestBodyLimit), GzipRequestMiddleware())
}

func health() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleMCP runs one JSON-RPC message through a fresh protocol server. The
// server instance and its registrations are request-scoped; only the task
// data behind them is global.
func handleMCP(store *storage.TaskStore, catalog assets.Catalog, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			logger.WithField("error", err.Error()).Error("failed to read MCP request body")
			return writeInternalError(c, err)
		}

		srv := mcp.NewServer(serverInfo, logger)
		RegisterBoardTool(srv, store, logger)
		RegisterWidgetResources(srv, catalog)

		out, hasResponse, err := srv.HandleRaw(c.Request().Context(), body)
		if err != nil {
			logger.WithField("error", err.Error()).Error("failed to handle MCP request")
			return writeInternalError(c, err)
		}
		if !hasResponse {
			return c.NoContent(http.StatusAccepted)
		}
		return c.JSONBlob(http.StatusOK, out)
	}
}

// writeInternalError reports a generic internal error unless the response is
// already committed, in which case there is nothing left to send.
func writeInternalError(c echo.Context, err error) error {
	if c.Response().Committed {
		return nil
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error":   "internal_server_error",
		"message": err.Error(),
	})
}
