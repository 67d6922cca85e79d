// Package storage holds the process-wide task store. The data is
// intentionally volatile: it is seeded at startup, lives for the process
// lifetime and is shared by every request.
package storage

import (
	"sync"

	"kanban-mcp/domain"
)

// TaskStore is an ordered collection of tasks, most recently written first.
// Task ids are unique across the store at all times. The store is shared by
// concurrent requests, so every access goes through the mutex.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []domain.Task
}

// NewTaskStore creates a store pre-populated with the given tasks, first
// argument first.
func NewTaskStore(seed ...domain.Task) *TaskStore {
	tasks := make([]domain.Task, len(seed))
	copy(tasks, seed)
	return &TaskStore{tasks: tasks}
}

// SeedTasks returns the fixed initial board contents.
func SeedTasks() []domain.Task {
	return []domain.Task{
		{ID: "task-1", Title: "Design empty states", Assignee: "Ada", Status: domain.StatusTodo},
		{ID: "task-2", Title: "Wireframe admin panel", Assignee: "Grace", Status: domain.StatusInProgress},
		{ID: "task-3", Title: "QA onboarding flow", Assignee: "Lin", Status: domain.StatusInProgress},
		{ID: "task-4", Title: "Finalize pricing deck", Assignee: "Alan", Status: domain.StatusDone},
		{ID: "task-5", Title: "Ship metrics dashboard", Assignee: "Hedy", Status: domain.StatusTodo},
		{ID: "task-6", Title: "Review beta feedback", Assignee: "Niels", Status: domain.StatusDone},
	}
}

// Upsert inserts the task at the front of the store, replacing any existing
// task with the same id. The newer write wins wholesale; there is no partial
// field update.
func (s *TaskStore) Upsert(task domain.Task) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, current := range s.tasks {
		if current.ID == task.ID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.tasks = append([]domain.Task{task}, s.tasks...)
	return task
}

// All returns a copy of the current task sequence. Later mutations of the
// store are not visible through the returned slice.
func (s *TaskStore) All() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len reports the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
