package board

import (
	"context"
	"testing"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

func TestAutoSave_PersistsStateAndEvents(t *testing.T) {
	ctx := context.Background()
	st := store.SQLiteStore{Dir: t.TempDir()}

	c := newBoard(nil, Immediate(), nil)
	a := Persist(c, st, nil)
	defer a.Close()

	c.SetActor(u1)
	res, err := c.CreateTask(ctx, model.Draft{Title: "Write plan", Priority: model.PriorityHigh, State: model.StateTodo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := c.MoveTask(ctx, res.Task.ID, model.StateDone); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := a.Err(); err != nil {
		t.Fatalf("autosave: %v", err)
	}

	loaded, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.User == nil || loaded.User.ID != "u1" {
		t.Fatalf("expected user persisted; got %+v", loaded.User)
	}
	if len(loaded.Tasks) != 1 || loaded.Tasks[0].State != model.StateDone {
		t.Fatalf("expected one done task; got %+v", loaded.Tasks)
	}

	evs, err := st.ReadEvents(ctx, 10)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(evs) != 2 || evs[0].Type != store.EventTaskCreate || evs[1].Type != store.EventTaskMove {
		t.Fatalf("unexpected events: %+v", evs)
	}
	if evs[1].EntityID != res.Task.ID || evs[1].ActorID != "u1" {
		t.Fatalf("unexpected move event: %+v", evs[1])
	}

	// A fresh coordinator rehydrates from the saved tree.
	again := New(loaded, Options{Backend: Immediate()})
	if got, ok := again.Task(res.Task.ID); !ok || got.State != model.StateDone {
		t.Fatalf("expected rehydrated task; got %+v", got)
	}
	if again.Actor() == nil || again.Actor().ID != "u1" {
		t.Fatalf("expected rehydrated actor")
	}
}

func TestAutoSave_RollbackPersistsRestoredState(t *testing.T) {
	ctx := context.Background()
	st := store.SQLiteStore{Dir: t.TempDir()}
	c := newBoard(seeded(), SimulatedBackend{Fail: FailKinds(OpMove)}, u1)
	a := Persist(c, st, nil)
	defer a.Close()

	if _, err := c.MoveTask(ctx, "t-1", model.StateDone); err == nil {
		t.Fatalf("expected move failure")
	}
	loaded, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Tasks) != 2 || loaded.Tasks[0].State != model.StateTodo {
		t.Fatalf("expected persisted rollback; got %+v", loaded.Tasks)
	}
	evs, err := st.ReadEvents(ctx, 10)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("expected no event for a failed move; got %+v", evs)
	}
}
