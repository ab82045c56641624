package perm

import (
	"strings"

	"taskboard/internal/model"
)

// Permissions is the set of actions an actor may take on a task.
type Permissions struct {
	CanEdit         bool `json:"canEdit"`
	CanDelete       bool `json:"canDelete"`
	CanUpdateStatus bool `json:"canUpdateStatus"`
	CanView         bool `json:"canView"`
}

// For evaluates every permission of actor against t.
//
// Rules:
// - Admins can edit and delete any task.
// - The owner can edit and delete their task.
// - Assignees can only change status (kanban moves).
// - Anyone can view. Without an actor nothing else is allowed.
func For(t *model.Task, actor *model.UserProfile) Permissions {
	return Permissions{
		CanEdit:         CanEdit(t, actor),
		CanDelete:       CanDelete(t, actor),
		CanUpdateStatus: CanUpdateStatus(t, actor),
		CanView:         true,
	}
}

func CanEdit(t *model.Task, actor *model.UserProfile) bool {
	if t == nil || !present(actor) {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return strings.TrimSpace(t.OwnerID) == strings.TrimSpace(actor.ID)
}

func CanDelete(t *model.Task, actor *model.UserProfile) bool {
	return CanEdit(t, actor)
}

func CanUpdateStatus(t *model.Task, actor *model.UserProfile) bool {
	if CanEdit(t, actor) {
		return true
	}
	if t == nil || !present(actor) {
		return false
	}
	return t.IsAssigned(strings.TrimSpace(actor.ID))
}

func present(actor *model.UserProfile) bool {
	return actor != nil && strings.TrimSpace(actor.ID) != ""
}
