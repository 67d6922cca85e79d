package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"kanban-mcp/widget"
)

var (
	flagServerURL string
	flagConfig    string
	flagLogFile   string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kanban-widget",
		Short: "Terminal widget for the kanban board server",
		RunE:  run,
	}
	cmd.Flags().StringVar(&flagServerURL, "server", "", "board server /mcp endpoint (overrides config)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "path to a yaml config file")
	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "file to write client logs to")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := widget.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	if flagServerURL != "" {
		cfg.ServerURL = flagServerURL
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}

	logger := log.New()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		// The terminal is taken over by the TUI.
		logger.SetOutput(io.Discard)
	}

	connect := func(ctx context.Context) (widget.Host, error) {
		host := widget.NewHTTPHost(cfg.ServerURL, logger)
		if err := host.Initialize(ctx); err != nil {
			return nil, err
		}
		return host, nil
	}

	model := widget.NewModel(connect, logger,
		widget.WithHostWait(cfg.MaxHostChecks, time.Duration(cfg.CheckDelayMs)*time.Millisecond))

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
