package mutate

import (
	"errors"
	"testing"
	"time"

	"taskboard/internal/model"
)

func sampleTask() model.Task {
	created := time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC)
	return model.Task{
		ID:            "task-1",
		Title:         "Write plan",
		Priority:      model.PriorityMedium,
		State:         model.StateTodo,
		OwnerID:       "u1",
		AssignedUsers: []string{"u3"},
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestSetState(t *testing.T) {
	task := sampleTask()
	now := task.CreatedAt.Add(time.Minute)

	if _, err := SetState(task, model.StateDoing, &model.UserProfile{ID: "u2"}, now); err == nil {
		t.Fatalf("expected permission error")
	} else {
		var pd PermissionDeniedError
		if !errors.As(err, &pd) || pd.TaskID != "task-1" || pd.ActorID != "u2" {
			t.Fatalf("expected PermissionDeniedError; got %#v", err)
		}
	}
	if _, err := SetState(task, model.StateDoing, nil, now); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("expected ErrAuthorizationRequired; got %v", err)
	}

	// Assignees may move even though they cannot edit.
	res, err := SetState(task, model.StateDoing, &model.UserProfile{ID: "u3"}, now)
	if err != nil {
		t.Fatalf("SetState error: %v", err)
	}
	if !res.Changed || res.Task.State != model.StateDoing || !res.Task.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if task.State != model.StateTodo {
		t.Fatalf("input task must not be mutated")
	}
	if res.EventPayload["from"] != "todo" || res.EventPayload["to"] != "doing" {
		t.Fatalf("unexpected payload: %#v", res.EventPayload)
	}

	// No-op
	res2, err := SetState(task, model.StateTodo, &model.UserProfile{ID: "u1"}, now)
	if err != nil {
		t.Fatalf("SetState no-op error: %v", err)
	}
	if res2.Changed {
		t.Fatalf("expected changed=false")
	}

	if _, err := SetState(task, "blocked", &model.UserProfile{ID: "u1"}, now); err == nil {
		t.Fatalf("expected invalid state error")
	}
}
