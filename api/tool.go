package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"kanban-mcp/domain"
	"kanban-mcp/mcp"
	"kanban-mcp/storage"
)

// ToolKanbanBoard is the single tool this server exposes.
const ToolKanbanBoard = "kanban-board"

type boardToolArgs struct {
	StatusFilter domain.Status     `json:"statusFilter,omitempty"`
	NewTask      *domain.TaskInput `json:"newTask,omitempty"`
}

var statusEnum = []string{
	string(domain.StatusTodo),
	string(domain.StatusInProgress),
	string(domain.StatusDone),
}

func boardToolInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"statusFilter": map[string]any{
				"type": "string",
				"enum": statusEnum,
			},
			"newTask": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":       map[string]any{"type": "string", "minLength": 1},
					"title":    map[string]any{"type": "string", "minLength": 1},
					"assignee": map[string]any{"type": "string", "minLength": 1},
					"status":   map[string]any{"type": "string", "enum": statusEnum},
				},
				"required":             []string{"title", "assignee", "status"},
				"additionalProperties": false,
			},
		},
		"additionalProperties": false,
	}
}

// RegisterBoardTool registers the kanban-board tool against the shared task
// store. Registration happens on every request; the store is the only state
// that outlives it.
func RegisterBoardTool(srv *mcp.Server, store *storage.TaskStore, logger *log.Logger) {
	def := mcp.Tool{
		Name:        ToolKanbanBoard,
		Title:       "Show kanban board",
		Description: "Displays the sample kanban board grouped by status.",
		InputSchema: boardToolInputSchema(),
		Annotations: mcp.ToolAnnotations{},
		Meta: map[string]any{
			"openai/outputTemplate":          TemplateURI,
			"openai/toolInvocation/invoking": "Loading board…",
			"openai/toolInvocation/invoked":  "Board ready.",
			"openai/widgetAccessible":        true,
		},
	}

	srv.RegisterTool(def, func(ctx context.Context, raw json.RawMessage) (any, error) {
		metrics := newToolRequestMetrics(ctx, logger)
		resp, created, err := handleBoardCall(store, raw, metrics)
		metrics.Log(created, err)
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
}

func handleBoardCall(store *storage.TaskStore, raw json.RawMessage, metrics *toolRequestMetrics) (ToolResponse, *domain.Task, error) {
	var args boardToolArgs
	if len(raw) > 0 {
		decodeStart := time.Now()
		err := sonic.Unmarshal(raw, &args)
		metrics.ObserveDecode(time.Since(decodeStart))
		if err != nil {
			metrics.SetErrorStage("decode_arguments")
			return ToolResponse{}, nil, fmt.Errorf("decode arguments: %w", err)
		}
	}

	if args.StatusFilter != "" && !args.StatusFilter.Valid() {
		metrics.SetErrorStage("invalid_status_filter")
		return ToolResponse{}, nil, fmt.Errorf("invalid statusFilter %q", string(args.StatusFilter))
	}

	var created *domain.Task
	if args.NewTask != nil {
		if err := args.NewTask.Validate(); err != nil {
			metrics.SetErrorStage("invalid_new_task")
			return ToolResponse{}, nil, err
		}
		mutateStart := time.Now()
		task := store.Upsert(args.NewTask.Normalize())
		metrics.ObserveMutate(time.Since(mutateStart))
		created = &task
	}

	board := domain.Project(store.All(), time.Now())
	metrics.SetTasksProjected(len(board.TasksByID))
	metrics.SetStatusFilter(args.StatusFilter)

	return BuildToolResponse(board, args.StatusFilter, created), created, nil
}
