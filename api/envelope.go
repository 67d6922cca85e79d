package api

import (
	"fmt"

	"kanban-mcp/domain"
	"kanban-mcp/mcp"
)

// columnTaskCap bounds the task count per column in the structured view.
// The uncapped columns stay reachable through the metadata side channel.
const columnTaskCap = 12

// StructuredContent is the canonical board snapshot emitted to the host.
type StructuredContent struct {
	Columns      []domain.Column `json:"columns"`
	LastSyncedAt string          `json:"lastSyncedAt"`
}

// ToolResponse is the envelope returned from a kanban-board call. The same
// snapshot is deliberately duplicated under several key names: the host's
// contract for where structured output lives is not ours to control, so
// every plausible location carries the data.
type ToolResponse struct {
	StructuredContent      StructuredContent `json:"structuredContent"`
	StructuredContentSnake StructuredContent `json:"structured_content"`
	Content                []mcp.TextContent `json:"content"`
	Meta                   map[string]any    `json:"_meta"`
}

// FormatStructuredContent applies the optional status filter and the
// per-column cap to the board's columns.
func FormatStructuredContent(board domain.Board, statusFilter domain.Status) StructuredContent {
	filtered := make([]domain.Column, 0, len(board.Columns))
	for _, column := range board.Columns {
		if statusFilter != "" && column.ID != statusFilter {
			continue
		}
		tasks := column.Tasks
		if len(tasks) > columnTaskCap {
			tasks = tasks[:columnTaskCap]
		}
		filtered = append(filtered, domain.Column{ID: column.ID, Title: column.Title, Tasks: tasks})
	}
	return StructuredContent{Columns: filtered, LastSyncedAt: board.LastSyncedAt}
}

// BuildToolResponse packages a board projection, an optional status filter
// and an optional just-created task into the redundant envelope.
func BuildToolResponse(board domain.Board, statusFilter domain.Status, created *domain.Task) ToolResponse {
	structured := FormatStructuredContent(board, statusFilter)

	widgetState := map[string]any{
		"columns":      board.Columns,
		"tasksById":    board.TasksByID,
		"lastSyncedAt": board.LastSyncedAt,
	}

	meta := map[string]any{
		"tasksById":          board.TasksByID,
		"lastSyncedAt":       board.LastSyncedAt,
		"columnsFull":        board.Columns,
		"openai/widgetState": widgetState,
		"structuredContent":  structured,
	}
	if created != nil {
		meta["lastCreatedTask"] = *created
	}

	summary := "Here is the latest kanban snapshot."
	if created != nil {
		summary = fmt.Sprintf("Added task %q to %s. Here is the updated board.", created.Title, created.Status)
	}

	return ToolResponse{
		StructuredContent:      structured,
		StructuredContentSnake: structured,
		Content:                []mcp.TextContent{{Type: "text", Text: summary}},
		Meta:                   meta,
	}
}
