package domain

import "time"

// Column is a fixed status bucket holding tasks in store order.
type Column struct {
	ID    Status `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// Board is the derived point-in-time view of the store. It is recomputed on
// every read and never stored.
type Board struct {
	Columns      []Column        `json:"columns"`
	TasksByID    map[string]Task `json:"tasksById"`
	LastSyncedAt string          `json:"lastSyncedAt"`
}

// Project partitions tasks by status into the three fixed columns,
// preserving the given ordering within each column. All three columns are
// always present, empty or not.
func Project(tasks []Task, now time.Time) Board {
	byID := make(map[string]Task, len(tasks))
	grouped := map[Status][]Task{
		StatusTodo:       {},
		StatusInProgress: {},
		StatusDone:       {},
	}
	for _, task := range tasks {
		byID[task.ID] = task
		grouped[task.Status] = append(grouped[task.Status], task)
	}

	columns := make([]Column, 0, len(Statuses))
	for _, status := range Statuses {
		columns = append(columns, Column{
			ID:    status,
			Title: status.Label(),
			Tasks: grouped[status],
		})
	}

	return Board{
		Columns:      columns,
		TasksByID:    byID,
		LastSyncedAt: now.UTC().Format(time.RFC3339),
	}
}
