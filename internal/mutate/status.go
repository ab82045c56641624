package mutate

import (
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/perm"
)

type SetStateResult struct {
	Task         model.Task
	Changed      bool
	EventPayload map[string]any
}

// SetState moves t to state. Owners, admins and assignees may do this.
// Moving a task into the state it already has is reported as unchanged.
func SetState(t model.Task, state model.State, actor *model.UserProfile, now time.Time) (SetStateResult, error) {
	if actor == nil || strings.TrimSpace(actor.ID) == "" {
		return SetStateResult{}, ErrAuthorizationRequired
	}
	if !state.Valid() {
		return SetStateResult{}, ValidationError{Field: "state", Reason: "invalid state " + string(state)}
	}
	if !perm.CanUpdateStatus(&t, actor) {
		return SetStateResult{}, denied(actor, t.ID, "update status of")
	}
	if t.State == state {
		return SetStateResult{Task: t.Clone(), Changed: false}, nil
	}

	next := t.Clone()
	prev := next.State
	next.State = state
	next.UpdatedAt = laterOf(now.UTC(), next.CreatedAt)
	return SetStateResult{
		Task:    next,
		Changed: true,
		EventPayload: map[string]any{
			"from": string(prev),
			"to":   string(state),
		},
	}, nil
}
