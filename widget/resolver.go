// Package widget implements the board client: a resolver that extracts a
// canonical snapshot from whatever payload shape the host surfaces, a
// terminal renderer for that snapshot, and the interactive app around them.
package widget

// Task is the client-side view of a board item. Fields the payload does not
// carry stay empty rather than failing the decode.
type Task struct {
	ID       string
	Title    string
	Assignee string
	Status   string
}

// Column is one resolved status bucket.
type Column struct {
	ID    string
	Title string
	Tasks []Task
}

// Snapshot is the canonical board view every payload shape resolves into.
// An empty Columns slice is a legitimate state, not an error.
type Snapshot struct {
	Columns      []Column
	LastSyncedAt string
}

// Empty reports whether the snapshot resolved no columns.
func (s Snapshot) Empty() bool {
	return len(s.Columns) == 0
}

// Resolve extracts a snapshot from a tool response, host-supplied response
// metadata and a host-exposed widget state, in that order of trust. Each
// stage is consulted only when the previous one yielded no columns; a
// present-but-empty columns array counts as absent. Resolve is a pure
// function of its inputs so it can run on bootstrap, after every call and on
// manual refresh without accumulating state.
//
// All of the shapes it accepts exist in the wild: the canonical snapshot
// lives under two key spellings, inside nested tool outputs, in an uncapped
// side channel and in widget state, depending on the host.
func Resolve(response any, metadata map[string]any, widgetState map[string]any) Snapshot {
	// Stage 1: the response exposes structured content under a known key.
	if m, ok := asMap(response); ok {
		if structured, ok := structuredField(m); ok {
			if snap, ok := snapshotOf(structured); ok {
				return snap
			}
		}
		// Stage 2: some hosts deliver the structured content unwrapped.
		if snap, ok := snapshotOf(m); ok {
			return snap
		}
	}

	// Stage 3: host metadata.
	if snap, ok := resolveFromMetadata(metadata); ok {
		return fillSyncedAt(snap, metadata)
	}
	if snap, ok := snapshotOf(widgetState); ok {
		return snap
	}

	// Stage 4: the response's own side-channel full column set.
	if m, ok := asMap(response); ok {
		if meta, ok := asMap(m["_meta"]); ok {
			if columns, ok := decodeColumns(meta["columnsFull"]); ok {
				return Snapshot{Columns: columns, LastSyncedAt: stringField(meta, "lastSyncedAt")}
			}
		}
	}

	return Snapshot{}
}

func resolveFromMetadata(metadata map[string]any) (Snapshot, bool) {
	if metadata == nil {
		return Snapshot{}, false
	}

	if structured, ok := structuredField(metadata); ok {
		if snap, ok := snapshotOf(structured); ok {
			return snap, true
		}
	}
	// The snapshot may also sit at the metadata's own top level.
	if snap, ok := snapshotOf(metadata); ok {
		return snap, true
	}

	outputs, ok := asSlice(metadata["toolOutputs"])
	if !ok {
		outputs, ok = asSlice(metadata["tool_outputs"])
	}
	if ok && len(outputs) > 0 {
		if latest, ok := asMap(outputs[len(outputs)-1]); ok {
			if structured, ok := structuredField(latest); ok {
				if snap, ok := snapshotOf(structured); ok {
					return snap, true
				}
			}
			if output, ok := asMap(latest["output"]); ok {
				if structured, ok := structuredField(output); ok {
					if snap, ok := snapshotOf(structured); ok {
						return snap, true
					}
				}
				if snap, ok := snapshotOf(output); ok {
					return snap, true
				}
			}
		}
		// An unusable latest entry falls through to the later stages.
	}

	if columns, ok := decodeColumns(metadata["columnsFull"]); ok {
		return Snapshot{Columns: columns, LastSyncedAt: stringField(metadata, "lastSyncedAt")}, true
	}

	if state, ok := asMap(metadata["openai/widgetState"]); ok {
		if snap, ok := snapshotOf(state); ok {
			return snap, true
		}
	}

	return Snapshot{}, false
}

func fillSyncedAt(snap Snapshot, metadata map[string]any) Snapshot {
	if snap.LastSyncedAt == "" {
		snap.LastSyncedAt = stringField(metadata, "lastSyncedAt")
	}
	return snap
}

// structuredField looks up the structured-content field under either known
// spelling.
func structuredField(m map[string]any) (any, bool) {
	if v, ok := m["structuredContent"]; ok && v != nil {
		return v, true
	}
	if v, ok := m["structured_content"]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// snapshotOf decodes v as a snapshot when it is an object carrying a
// non-empty columns array.
func snapshotOf(v any) (Snapshot, bool) {
	m, ok := asMap(v)
	if !ok {
		return Snapshot{}, false
	}
	columns, ok := decodeColumns(m["columns"])
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{Columns: columns, LastSyncedAt: stringField(m, "lastSyncedAt")}, true
}

// decodeColumns decodes a columns value, reporting ok only for a non-empty
// array. Entries that are not objects are skipped; tasks that are not
// objects are skipped within a column.
func decodeColumns(v any) ([]Column, bool) {
	raw, ok := asSlice(v)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	columns := make([]Column, 0, len(raw))
	for _, entry := range raw {
		m, ok := asMap(entry)
		if !ok {
			continue
		}
		column := Column{
			ID:    stringField(m, "id"),
			Title: stringField(m, "title"),
		}
		if tasks, ok := asSlice(m["tasks"]); ok {
			for _, t := range tasks {
				tm, ok := asMap(t)
				if !ok {
					continue
				}
				column.Tasks = append(column.Tasks, Task{
					ID:       stringField(tm, "id"),
					Title:    stringField(tm, "title"),
					Assignee: stringField(tm, "assignee"),
					Status:   stringField(tm, "status"),
				})
			}
		}
		columns = append(columns, column)
	}
	if len(columns) == 0 {
		return nil, false
	}
	return columns, true
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
