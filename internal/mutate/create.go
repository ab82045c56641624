package mutate

import (
	"errors"
	"strings"
	"time"

	"taskboard/internal/model"
)

type CreateResult struct {
	Task         model.Task
	EventPayload map[string]any
}

// NewTask materializes a draft into a task owned by actor.
// Nothing is stored; the caller commits the result.
func NewTask(draft model.Draft, actor *model.UserProfile, id string, now time.Time) (CreateResult, error) {
	if actor == nil || strings.TrimSpace(actor.ID) == "" {
		return CreateResult{}, ErrAuthorizationRequired
	}
	if err := draft.Validate(); err != nil {
		return CreateResult{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return CreateResult{}, errors.New("new task: empty id")
	}

	now = now.UTC()
	t := model.Task{
		ID:            id,
		Title:         strings.TrimSpace(draft.Title),
		Description:   draft.Description,
		Priority:      draft.Priority,
		State:         draft.State,
		Image:         strings.TrimSpace(draft.Image),
		OwnerID:       strings.TrimSpace(actor.ID),
		AssignedUsers: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return CreateResult{
		Task: t,
		EventPayload: map[string]any{
			"title":    t.Title,
			"priority": string(t.Priority),
			"state":    string(t.State),
		},
	}, nil
}
