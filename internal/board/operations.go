package board

import (
	"context"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/mutate"
)

// BeginCreate validates the draft, marks create as loading and returns the pending
// creation. Nothing is stored until Wait succeeds.
func (c *Coordinator) BeginCreate(d model.Draft) (*Pending, error) {
	c.mu.Lock()
	actor := cloneProfile(c.actor)
	res, err := mutate.NewTask(d, actor, c.newID(), c.now())
	if err != nil {
		c.mu.Unlock()
		return nil, c.reject(Op{Kind: OpCreate, ActorID: actorID(actor)}, err)
	}
	op := Op{Kind: OpCreate, TaskID: res.Task.ID, ActorID: actor.ID}
	if c.loading.get(LoadingCreate, "") {
		c.mu.Unlock()
		return nil, c.reject(op, ErrBusy)
	}
	c.loading.set(LoadingCreate, "", true)
	p := &Pending{c: c, op: op, after: res.Task, payload: res.EventPayload, phase: PhaseLoading}
	c.mu.Unlock()

	c.logOp(op).Debug("begin")
	c.emit(Event{Type: EventLoading, Op: OpCreate, TaskID: op.TaskID, ActorID: op.ActorID, Loading: true})
	return p, nil
}

// BeginUpdate merges patch into the task after checking edit permission.
// The merged task is committed when Wait succeeds.
func (c *Coordinator) BeginUpdate(id string, patch model.Patch) (*Pending, error) {
	id = strings.TrimSpace(id)
	c.mu.Lock()
	actor := cloneProfile(c.actor)
	op := Op{Kind: OpUpdate, TaskID: id, ActorID: actorID(actor)}
	cur, ok := c.tasks.Find(id)
	if !ok {
		c.mu.Unlock()
		return nil, c.reject(op, mutate.NotFoundError{Kind: "task", ID: id})
	}
	res, err := mutate.ApplyPatch(cur, patch, actor, c.now())
	if err != nil {
		c.mu.Unlock()
		return nil, c.reject(op, err)
	}
	if c.loading.get(LoadingUpdate, id) {
		c.mu.Unlock()
		return nil, c.reject(op, ErrBusy)
	}
	if !res.Changed {
		c.mu.Unlock()
		return c.settled(op, cur), nil
	}
	c.loading.set(LoadingUpdate, id, true)
	p := &Pending{c: c, op: op, before: cur, after: res.Task, payload: res.EventPayload, phase: PhaseLoading}
	c.mu.Unlock()

	c.logOp(op).Debug("begin")
	c.emit(Event{Type: EventLoading, Op: OpUpdate, TaskID: id, ActorID: op.ActorID, Loading: true})
	return p, nil
}

// BeginDelete checks delete permission and marks the task as deleting.
// The task is removed, and its loading flags purged, when Wait succeeds.
func (c *Coordinator) BeginDelete(id string) (*Pending, error) {
	id = strings.TrimSpace(id)
	c.mu.Lock()
	actor := cloneProfile(c.actor)
	op := Op{Kind: OpDelete, TaskID: id, ActorID: actorID(actor)}
	cur, ok := c.tasks.Find(id)
	if !ok {
		c.mu.Unlock()
		return nil, c.reject(op, mutate.NotFoundError{Kind: "task", ID: id})
	}
	if err := mutate.CheckDelete(cur, actor); err != nil {
		c.mu.Unlock()
		return nil, c.reject(op, err)
	}
	if c.loading.get(LoadingDelete, id) {
		c.mu.Unlock()
		return nil, c.reject(op, ErrBusy)
	}
	c.loading.set(LoadingDelete, id, true)
	p := &Pending{c: c, op: op, before: cur, after: cur, payload: map[string]any{"title": cur.Title}, phase: PhaseLoading}
	c.mu.Unlock()

	c.logOp(op).Debug("begin")
	c.emit(Event{Type: EventLoading, Op: OpDelete, TaskID: id, ActorID: op.ActorID, Loading: true})
	return p, nil
}

// BeginMove is the kanban drop: after the status permission check the new state is
// applied to the store immediately, before the backend is consulted. Moving a task
// into the state it already has settles at once without touching any flag.
func (c *Coordinator) BeginMove(id string, state model.State) (*Pending, error) {
	id = strings.TrimSpace(id)
	c.mu.Lock()
	actor := cloneProfile(c.actor)
	op := Op{Kind: OpMove, TaskID: id, ActorID: actorID(actor)}
	cur, ok := c.tasks.Find(id)
	if !ok {
		c.mu.Unlock()
		return nil, c.reject(op, mutate.NotFoundError{Kind: "task", ID: id})
	}
	res, err := mutate.SetState(cur, state, actor, c.now())
	if err != nil {
		c.mu.Unlock()
		return nil, c.reject(op, err)
	}
	if !res.Changed {
		c.mu.Unlock()
		return c.settled(op, cur), nil
	}
	if c.loading.get(LoadingUpdate, id) {
		c.mu.Unlock()
		return nil, c.reject(op, ErrBusy)
	}
	c.tasks.Replace(res.Task)
	c.loading.set(LoadingUpdate, id, true)
	p := &Pending{c: c, op: op, before: cur, after: res.Task, payload: res.EventPayload, phase: PhaseLoading}
	c.mu.Unlock()

	c.logOp(op).WithField("to", string(state)).Debug("begin (optimistic)")
	c.emit(
		Event{Type: EventChanged, Op: OpMove, TaskID: id, ActorID: op.ActorID},
		Event{Type: EventLoading, Op: OpMove, TaskID: id, ActorID: op.ActorID, Loading: true},
	)
	return p, nil
}

func (c *Coordinator) CreateTask(ctx context.Context, d model.Draft) (Result, error) {
	p, err := c.BeginCreate(d)
	if err != nil {
		return Result{}, err
	}
	return p.Wait(ctx)
}

func (c *Coordinator) UpdateTask(ctx context.Context, id string, patch model.Patch) (Result, error) {
	p, err := c.BeginUpdate(id, patch)
	if err != nil {
		return Result{}, err
	}
	return p.Wait(ctx)
}

func (c *Coordinator) DeleteTask(ctx context.Context, id string) (Result, error) {
	p, err := c.BeginDelete(id)
	if err != nil {
		return Result{}, err
	}
	return p.Wait(ctx)
}

func (c *Coordinator) MoveTask(ctx context.Context, id string, state model.State) (Result, error) {
	p, err := c.BeginMove(id, state)
	if err != nil {
		return Result{}, err
	}
	return p.Wait(ctx)
}

// reject reports a gate failure. No state has changed at this point.
func (c *Coordinator) reject(op Op, err error) error {
	c.logOp(op).WithError(err).Info("rejected")
	c.emit(Event{Type: EventFailure, Op: op.Kind, TaskID: op.TaskID, ActorID: op.ActorID, Message: err.Error(), Err: err})
	return err
}

func actorID(u *model.UserProfile) string {
	if u == nil {
		return ""
	}
	return u.ID
}
