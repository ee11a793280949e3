package domain

import "time"

// Status is the lifecycle state of a task. Any status may transition to
// any other; there is no ordering constraint.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the three known statuses.
// Nothing outside this set is ever persisted.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Domain entity. Does not depend on Gin, Postgres or Redis.
// OwnerID, ID and CreatedAt are immutable after creation.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	DueDate     *time.Time
	OwnerID     int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
