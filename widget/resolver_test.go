package widget

import "testing"

func boardColumns() []any {
	return []any{
		map[string]any{
			"id":    "todo",
			"title": "To do",
			"tasks": []any{
				map[string]any{"id": "task-1", "title": "Design empty states", "assignee": "Ada", "status": "todo"},
			},
		},
	}
}

func assertResolved(t *testing.T, snap Snapshot) {
	t.Helper()
	if snap.Empty() {
		t.Fatal("expected columns to resolve")
	}
	if snap.Columns[0].ID != "todo" || snap.Columns[0].Title != "To do" {
		t.Fatalf("unexpected column: %+v", snap.Columns[0])
	}
	if len(snap.Columns[0].Tasks) != 1 || snap.Columns[0].Tasks[0].Assignee != "Ada" {
		t.Fatalf("unexpected tasks: %+v", snap.Columns[0].Tasks)
	}
}

func TestResolveFromResponseStructuredContent(t *testing.T) {
	response := map[string]any{
		"structuredContent": map[string]any{
			"columns":      boardColumns(),
			"lastSyncedAt": "2026-03-14T09:26:53Z",
		},
	}

	snap := Resolve(response, nil, nil)

	assertResolved(t, snap)
	if snap.LastSyncedAt != "2026-03-14T09:26:53Z" {
		t.Fatalf("unexpected sync time: %q", snap.LastSyncedAt)
	}
}

func TestResolveFromResponseSnakeCaseSpelling(t *testing.T) {
	response := map[string]any{
		"structured_content": map[string]any{"columns": boardColumns()},
	}

	assertResolved(t, Resolve(response, nil, nil))
}

func TestResolveTreatsRawResponseAsStructured(t *testing.T) {
	response := map[string]any{"columns": boardColumns()}

	assertResolved(t, Resolve(response, nil, nil))
}

func TestResolveEmptyColumnsArrayFallsThrough(t *testing.T) {
	// A present-but-empty array at an earlier stage must not stop the chain.
	response := map[string]any{
		"structuredContent": map[string]any{"columns": []any{}},
	}
	metadata := map[string]any{
		"structuredContent": map[string]any{"columns": boardColumns()},
	}

	assertResolved(t, Resolve(response, metadata, nil))
}

func TestResolveFromMetadataTopLevelColumns(t *testing.T) {
	metadata := map[string]any{"columns": boardColumns()}

	assertResolved(t, Resolve(nil, metadata, nil))
}

func TestResolveFromMetadataToolOutputsLastEntry(t *testing.T) {
	metadata := map[string]any{
		"toolOutputs": []any{
			map[string]any{"structuredContent": map[string]any{"columns": []any{}}},
			map[string]any{"structured_content": map[string]any{"columns": boardColumns()}},
		},
	}

	assertResolved(t, Resolve(nil, metadata, nil))
}

func TestResolveFromMetadataToolOutputsNestedOutput(t *testing.T) {
	metadata := map[string]any{
		"tool_outputs": []any{
			map[string]any{
				"output": map[string]any{
					"structuredContent": map[string]any{"columns": boardColumns()},
				},
			},
		},
	}

	assertResolved(t, Resolve(nil, metadata, nil))
}

func TestResolveUnusableToolOutputsEntryFallsThrough(t *testing.T) {
	metadata := map[string]any{
		"toolOutputs": []any{map[string]any{"content": "text only"}},
		"columnsFull": boardColumns(),
	}

	assertResolved(t, Resolve(nil, metadata, nil))
}

func TestResolveFromMetadataColumnsFull(t *testing.T) {
	metadata := map[string]any{
		"columnsFull":  boardColumns(),
		"lastSyncedAt": "2026-03-14T09:26:53Z",
	}

	snap := Resolve(nil, metadata, nil)

	assertResolved(t, snap)
	if snap.LastSyncedAt != "2026-03-14T09:26:53Z" {
		t.Fatalf("sync time not taken from metadata: %q", snap.LastSyncedAt)
	}
}

func TestResolveFromMetadataWidgetState(t *testing.T) {
	metadata := map[string]any{
		"openai/widgetState": map[string]any{"columns": boardColumns()},
	}

	assertResolved(t, Resolve(nil, metadata, nil))
}

func TestResolveFromHostWidgetState(t *testing.T) {
	state := map[string]any{"columns": boardColumns()}

	assertResolved(t, Resolve(nil, nil, state))
}

func TestResolveFromResponseSideChannel(t *testing.T) {
	response := map[string]any{
		"_meta": map[string]any{"columnsFull": boardColumns()},
	}

	assertResolved(t, Resolve(response, nil, nil))
}

func TestResolveNothingYieldsEmptySnapshot(t *testing.T) {
	response := map[string]any{"content": []any{map[string]any{"type": "text", "text": "hi"}}}
	metadata := map[string]any{"toolOutputs": []any{}}

	snap := Resolve(response, metadata, map[string]any{})

	if !snap.Empty() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestResolveSkipsNonObjectTasks(t *testing.T) {
	response := map[string]any{
		"columns": []any{
			map[string]any{
				"id":    "todo",
				"title": "To do",
				"tasks": []any{"not-a-task", map[string]any{"title": "Real", "assignee": "Lin"}},
			},
		},
	}

	snap := Resolve(response, nil, nil)

	if len(snap.Columns[0].Tasks) != 1 || snap.Columns[0].Tasks[0].Title != "Real" {
		t.Fatalf("unexpected tasks: %+v", snap.Columns[0].Tasks)
	}
}

func TestResolveIsReentrant(t *testing.T) {
	response := map[string]any{
		"structuredContent": map[string]any{"columns": boardColumns()},
	}

	first := Resolve(response, nil, nil)
	second := Resolve(response, nil, nil)

	if len(first.Columns) != len(second.Columns) || first.LastSyncedAt != second.LastSyncedAt {
		t.Fatalf("repeated resolution diverged: %+v vs %+v", first, second)
	}
}
