package board

import "errors"

type EventType string

const (
	// EventLoading reports a loading flag flipping for (Op, TaskID).
	EventLoading EventType = "loading"
	// EventSuccess is a user-facing confirmation.
	EventSuccess EventType = "success"
	// EventFailure is a user-facing error. Err holds the typed cause.
	EventFailure EventType = "failure"
	// EventChanged means the state tree changed and should be re-read or persisted.
	EventChanged EventType = "changed"
)

const (
	msgCreated = "Task created successfully"
	msgUpdated = "Task updated successfully"
	msgDeleted = "Task deleted successfully"
	msgMoved   = "Task status updated"
	msgFailed  = "Operation failed. Please try again."
)

// Toast is the user-facing message for an operation of kind k that settled with err.
func Toast(k OpKind, err error) string {
	if err == nil {
		return successMessage(k)
	}
	var failed OperationFailedError
	if errors.As(err, &failed) {
		return msgFailed
	}
	return err.Error()
}

type Event struct {
	Type    EventType
	Op      OpKind
	TaskID  string
	ActorID string
	Loading bool
	Message string
	Err     error
	// Payload describes a committed change; set on EventSuccess.
	Payload map[string]any
}

// Subscribe registers fn for every future event and returns a function removing it.
// Subscribers run synchronously on the goroutine that produced the event, after the
// coordinator has released its lock, so they may call back into the coordinator.
func (c *Coordinator) Subscribe(fn func(Event)) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

type subscriber struct {
	id int
	fn func(Event)
}

func (c *Coordinator) emit(evs ...Event) {
	if len(evs) == 0 {
		return
	}
	c.subsMu.Lock()
	subs := append([]subscriber(nil), c.subs...)
	c.subsMu.Unlock()

	for _, ev := range evs {
		for _, s := range subs {
			s.fn(ev)
		}
	}
}
