package main

import (
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"kanban-mcp/api"
	"kanban-mcp/assets"
	"kanban-mcp/storage"
)

func main() {
	logger := log.New()
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		logger.SetLevel(log.DebugLevel)
	}

	assetDir := os.Getenv("ASSET_DIR")
	if assetDir == "" {
		assetDir = "web/dist"
	}
	catalog := assets.Load(assetDir, logger)

	store := storage.NewTaskStore(storage.SeedTasks()...)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.Register(e, store, catalog, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	listenAddr := host + ":" + port

	logger.WithField("addr", listenAddr).Info("MCP server listening")
	e.Logger.Fatal(e.Start(listenAddr))
}
