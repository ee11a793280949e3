// Package authz holds the single ownership check used by every task
// operation. Handlers and services must not reimplement it.
package authz

import "github.com/YoussoufEfkiren/ToDoList/internal/domain"

// Action is what the acting user wants to do with a task.
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Permit reports whether actingUserID may perform action on t.
// Only the owner may view, update or delete a task; there is no role
// hierarchy and no delegation.
func Permit(actingUserID int64, t domain.Task, action Action) bool {
	switch action {
	case ActionView, ActionUpdate, ActionDelete:
		return t.OwnerID == actingUserID
	}
	return false
}
