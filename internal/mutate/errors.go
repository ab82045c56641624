package mutate

import (
	"errors"
	"fmt"

	"taskboard/internal/model"
)

// ErrAuthorizationRequired is returned when a mutation is attempted without a signed-in actor.
var ErrAuthorizationRequired = errors.New("sign in required")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// PermissionDeniedError is returned before any state change when the actor lacks the capability.
type PermissionDeniedError struct {
	ActorID string
	TaskID  string
	Action  string
}

func (e PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: actor %s cannot %s task %s", e.ActorID, e.Action, e.TaskID)
}

// ValidationError is re-exported so callers only need this package for the taxonomy.
type ValidationError = model.ValidationError

func denied(actor *model.UserProfile, taskID, action string) PermissionDeniedError {
	id := ""
	if actor != nil {
		id = actor.ID
	}
	return PermissionDeniedError{ActorID: id, TaskID: taskID, Action: action}
}
