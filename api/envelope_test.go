package api

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"kanban-mcp/domain"
)

func boardWithTodoCount(n int) domain.Board {
	tasks := make([]domain.Task, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, domain.Task{
			ID:       fmt.Sprintf("task-%d", i),
			Title:    fmt.Sprintf("Task %d", i),
			Assignee: "Rae",
			Status:   domain.StatusTodo,
		})
	}
	return domain.Project(tasks, time.Now())
}

func TestFormatStructuredContentCapsColumns(t *testing.T) {
	board := boardWithTodoCount(13)

	structured := FormatStructuredContent(board, "")

	if len(structured.Columns[0].Tasks) != columnTaskCap {
		t.Fatalf("expected %d tasks after cap, got %d", columnTaskCap, len(structured.Columns[0].Tasks))
	}
	// The cap only narrows the structured view and never the board itself.
	if len(board.Columns[0].Tasks) != 13 {
		t.Fatalf("board mutated by capping: %d tasks", len(board.Columns[0].Tasks))
	}
}

func TestFormatStructuredContentFilterDropsOtherColumns(t *testing.T) {
	board := boardWithTodoCount(2)

	structured := FormatStructuredContent(board, domain.StatusDone)

	if len(structured.Columns) != 1 || structured.Columns[0].ID != domain.StatusDone {
		t.Fatalf("unexpected filtered columns: %+v", structured.Columns)
	}
}

func TestBuildToolResponseMetaCarriesUncappedColumns(t *testing.T) {
	board := boardWithTodoCount(13)

	resp := BuildToolResponse(board, "", nil)

	full, ok := resp.Meta["columnsFull"].([]domain.Column)
	if !ok {
		t.Fatalf("columnsFull missing or mistyped: %T", resp.Meta["columnsFull"])
	}
	if len(full[0].Tasks) != 13 {
		t.Fatalf("side channel capped: %d tasks", len(full[0].Tasks))
	}
	if len(resp.StructuredContent.Columns[0].Tasks) != columnTaskCap {
		t.Fatalf("structured view not capped: %d tasks", len(resp.StructuredContent.Columns[0].Tasks))
	}
}

func TestBuildToolResponseDuplicatesStructuredContent(t *testing.T) {
	board := boardWithTodoCount(1)

	resp := BuildToolResponse(board, "", nil)

	if len(resp.StructuredContent.Columns) != len(resp.StructuredContentSnake.Columns) {
		t.Fatal("top-level spellings diverged")
	}
	if _, ok := resp.Meta["structuredContent"]; !ok {
		t.Fatal("metadata copy of structured content missing")
	}
	if _, ok := resp.Meta["openai/widgetState"]; !ok {
		t.Fatal("widget state missing from metadata")
	}
	if _, ok := resp.Meta["lastCreatedTask"]; ok {
		t.Fatal("lastCreatedTask must be absent without a created task")
	}
}

func TestBuildToolResponseSummaryPhrasing(t *testing.T) {
	board := boardWithTodoCount(1)

	plain := BuildToolResponse(board, "", nil)
	if plain.Content[0].Text != "Here is the latest kanban snapshot." {
		t.Fatalf("unexpected snapshot summary: %q", plain.Content[0].Text)
	}

	created := domain.Task{ID: "task-9", Title: "Ship v2", Assignee: "Rae", Status: domain.StatusTodo}
	withTask := BuildToolResponse(board, "", &created)
	text := withTask.Content[0].Text
	if !strings.Contains(text, "Ship v2") || !strings.Contains(text, "todo") {
		t.Fatalf("summary missing task details: %q", text)
	}
	if withTask.Meta["lastCreatedTask"] != created {
		t.Fatalf("lastCreatedTask not recorded: %+v", withTask.Meta["lastCreatedTask"])
	}
}
