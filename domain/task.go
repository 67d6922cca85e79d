package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Status is one of the fixed board columns a task can live in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the valid statuses in board column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the display title for the status column.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Task represents a single board item.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	Status   Status `json:"status"`
}

// TaskInput is the new-task payload accepted by the board tool.
type TaskInput struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	Status   Status `json:"status"`
}

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrAssigneeRequired = errors.New("assignee is required")
)

// Validate checks the input the way the tool schema would before it reaches
// the store.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.Assignee) == "" {
		return ErrAssigneeRequired
	}
	if !in.Status.Valid() {
		return fmt.Errorf("invalid status %q", string(in.Status))
	}
	return nil
}

// Normalize trims free-text fields and synthesizes an id from the current
// time when none was supplied. Callers validate first; Normalize assumes
// well-formed input.
func (in TaskInput) Normalize() Task {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = fmt.Sprintf("task-%d", nextTimestamp())
	}
	return Task{
		ID:       id,
		Title:    strings.TrimSpace(in.Title),
		Assignee: strings.TrimSpace(in.Assignee),
		Status:   in.Status,
	}
}

var lastTimestamp int64

// nextTimestamp returns a strictly increasing millisecond timestamp so two
// concurrent normalizations never synthesize the same id.
func nextTimestamp() int64 {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&lastTimestamp)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastTimestamp, last, now) {
			return now
		}
	}
}
