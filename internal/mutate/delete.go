package mutate

import (
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/perm"
)

// CheckDelete returns nil when actor may delete t.
func CheckDelete(t model.Task, actor *model.UserProfile) error {
	if actor == nil || strings.TrimSpace(actor.ID) == "" {
		return ErrAuthorizationRequired
	}
	if !perm.CanDelete(&t, actor) {
		return denied(actor, t.ID, "delete")
	}
	return nil
}
