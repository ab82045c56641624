package board

import (
	"context"
	"errors"
	"sync"

	"taskboard/internal/model"

	log "github.com/sirupsen/logrus"
)

// Phase is where a single (task, operation) sits in the optimistic state machine:
// Idle -> Loading -> Committed | RolledBack.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseCommitted
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Result is the settled outcome of a mutation.
type Result struct {
	Task    model.Task
	Changed bool
}

// Pending is a mutation that has passed its permission gate and holds a loading flag.
// Wait resolves it against the backend.
type Pending struct {
	c  *Coordinator
	op Op

	// before is the pre-mutation snapshot, used only for rollback.
	before model.Task
	// after is what gets committed once the backend acknowledges.
	after   model.Task
	payload map[string]any

	phase Phase // guarded by c.mu

	once sync.Once
	res  Result
	err  error
}

func (p *Pending) Op() Op { return p.op }

func (p *Pending) Phase() Phase {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	return p.phase
}

// Wait blocks until the backend acknowledges, then commits or rolls back and clears
// the loading flag. Caller cancellation is ignored: a started operation always settles.
// Repeated calls return the first outcome.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	p.once.Do(func() {
		p.res, p.err = p.c.resolve(ctx, p)
	})
	return p.res, p.err
}

// settled builds a Pending that never entered the state machine (a no-op).
func (c *Coordinator) settled(op Op, t model.Task) *Pending {
	p := &Pending{c: c, op: op, before: t, after: t, phase: PhaseIdle}
	p.once.Do(func() { p.res = Result{Task: t.Clone(), Changed: false} })
	return p
}

func (c *Coordinator) resolve(ctx context.Context, p *Pending) (Result, error) {
	ackErr := c.backend.Acknowledge(context.WithoutCancel(ctx), p.op)

	id := p.op.TaskID
	var (
		res     Result
		changed bool
		gone    bool
	)

	c.mu.Lock()
	if ackErr == nil {
		switch p.op.Kind {
		case OpCreate:
			if err := c.tasks.Insert(p.after); err != nil {
				ackErr = err
				break
			}
			res = Result{Task: p.after.Clone(), Changed: true}
			changed = true
		case OpUpdate:
			if !c.tasks.Replace(p.after) {
				gone = true
				break
			}
			res = Result{Task: p.after.Clone(), Changed: true}
			changed = true
		case OpMove:
			// The optimistic apply already landed; re-applying the state is the commit.
			cur, ok := c.tasks.Find(id)
			if !ok {
				gone = true
				break
			}
			if cur.State != p.after.State {
				cur.State = p.after.State
				c.tasks.Replace(cur)
				changed = true
			}
			res = Result{Task: cur, Changed: true}
		case OpDelete:
			if !c.tasks.Remove(id) {
				gone = true
			} else {
				res = Result{Task: p.before.Clone(), Changed: true}
				changed = true
			}
			c.loading.purge(id)
		}
	}
	if ackErr != nil && p.op.Kind == OpMove {
		if cur, ok := c.tasks.Find(id); ok {
			cur.State = p.before.State
			cur.UpdatedAt = p.before.UpdatedAt
			c.tasks.Replace(cur)
			changed = true
		}
	}
	if ackErr != nil {
		p.phase = PhaseRolledBack
	} else {
		p.phase = PhaseCommitted
	}
	c.loading.set(loadingKindFor(p.op.Kind), id, false)
	c.mu.Unlock()

	entry := c.logOp(p.op)
	evs := make([]Event, 0, 3)
	if changed {
		evs = append(evs, Event{Type: EventChanged, Op: p.op.Kind, TaskID: id, ActorID: p.op.ActorID})
	}
	evs = append(evs, Event{Type: EventLoading, Op: p.op.Kind, TaskID: id, ActorID: p.op.ActorID, Loading: false})

	if ackErr != nil {
		var failed OperationFailedError
		if !errors.As(ackErr, &failed) {
			failed = OperationFailedError{Op: p.op.Kind, TaskID: id, Cause: ackErr}
		}
		entry.WithError(ackErr).Warn("rolled back")
		evs = append(evs, Event{Type: EventFailure, Op: p.op.Kind, TaskID: id, ActorID: p.op.ActorID, Message: msgFailed, Err: failed})
		c.emit(evs...)
		return Result{}, failed
	}

	if gone {
		entry.Debug("task gone before commit; skipped")
		c.emit(evs...)
		return Result{Task: p.after.Clone(), Changed: false}, nil
	}

	entry.Info("committed")
	evs = append(evs, Event{Type: EventSuccess, Op: p.op.Kind, TaskID: id, ActorID: p.op.ActorID, Message: successMessage(p.op.Kind), Payload: p.payload})
	c.emit(evs...)
	return res, nil
}

func successMessage(k OpKind) string {
	switch k {
	case OpCreate:
		return msgCreated
	case OpUpdate:
		return msgUpdated
	case OpDelete:
		return msgDeleted
	case OpMove:
		return msgMoved
	}
	return ""
}

func (c *Coordinator) logOp(op Op) *log.Entry {
	return c.log.WithFields(log.Fields{
		"op":    string(op.Kind),
		"task":  op.TaskID,
		"actor": op.ActorID,
	})
}
