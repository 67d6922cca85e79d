package widget

import (
	"strings"
	"testing"
)

func TestRenderBoardEmptyState(t *testing.T) {
	out := RenderBoard(Snapshot{})

	if !strings.Contains(out, "No tasks available.") {
		t.Fatalf("missing empty-state message: %q", out)
	}
	if strings.Contains(out, "(0)") {
		t.Fatalf("empty board must not render column sections: %q", out)
	}
}

func TestRenderBoardColumnsAndTasks(t *testing.T) {
	snap := Snapshot{
		Columns: []Column{
			{ID: "todo", Title: "To do", Tasks: []Task{
				{Title: "Design empty states", Assignee: "Ada"},
				{Title: "Ship metrics dashboard", Assignee: "Hedy"},
			}},
			{ID: "done", Title: "Done"},
		},
	}

	out := RenderBoard(snap)

	if !strings.Contains(out, "To do (2)") {
		t.Fatalf("missing todo heading with count: %q", out)
	}
	if !strings.Contains(out, "Done (0)") {
		t.Fatalf("missing empty done heading: %q", out)
	}
	if !strings.Contains(out, "Assigned to Ada") || !strings.Contains(out, "Assigned to Hedy") {
		t.Fatalf("missing assignee lines: %q", out)
	}
}

func TestRenderBoardUntitledColumnFallsBack(t *testing.T) {
	snap := Snapshot{Columns: []Column{{ID: "todo"}}}

	out := RenderBoard(snap)

	if !strings.Contains(out, "Column (0)") {
		t.Fatalf("missing fallback column title: %q", out)
	}
}

func TestRenderBoardSyncedLine(t *testing.T) {
	snap := Snapshot{
		Columns:      []Column{{ID: "todo", Title: "To do"}},
		LastSyncedAt: "2026-03-14T09:26:53Z",
	}

	out := RenderBoard(snap)

	if !strings.Contains(out, "Last synced ") {
		t.Fatalf("missing synced line: %q", out)
	}
}

func TestRenderBoardMalformedTimestampOmitted(t *testing.T) {
	snap := Snapshot{
		Columns:      []Column{{ID: "todo", Title: "To do"}},
		LastSyncedAt: "yesterday-ish",
	}

	out := RenderBoard(snap)

	if strings.Contains(out, "Last synced") {
		t.Fatalf("malformed timestamp must be omitted: %q", out)
	}
}
