package board

import (
	"context"
	"sync"

	"taskboard/internal/store"

	log "github.com/sirupsen/logrus"
)

// AutoSave persists the coordinator's state tree after every change and appends
// committed mutations to the store's event log.
type AutoSave struct {
	c     *Coordinator
	st    store.StateStore
	log   *log.Logger
	unsub func()

	mu  sync.Mutex
	err error
}

// Persist subscribes an AutoSave to c. Call Close to stop it.
func Persist(c *Coordinator, st store.StateStore, logger *log.Logger) *AutoSave {
	if logger == nil {
		logger = c.log
	}
	a := &AutoSave{c: c, st: st, log: logger}
	a.unsub = c.Subscribe(a.handle)
	return a
}

func (a *AutoSave) handle(ev Event) {
	switch ev.Type {
	case EventChanged:
		a.mu.Lock()
		defer a.mu.Unlock()
		// Snapshot inside the lock so saves land in the order the changes happened.
		if err := a.st.Save(context.Background(), a.c.Snapshot()); err != nil {
			a.log.WithError(err).Error("save state")
			a.err = err
		}
	case EventSuccess:
		typ, ok := eventTypeFor(ev.Op)
		if !ok {
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		if err := a.st.AppendEvent(context.Background(), ev.ActorID, typ, ev.TaskID, ev.Payload); err != nil {
			a.log.WithError(err).Error("append event")
			a.err = err
		}
	}
}

// Err returns the most recent persistence error, if any.
func (a *AutoSave) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *AutoSave) Close() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
}

func eventTypeFor(k OpKind) (string, bool) {
	switch k {
	case OpCreate:
		return store.EventTaskCreate, true
	case OpUpdate:
		return store.EventTaskUpdate, true
	case OpDelete:
		return store.EventTaskDelete, true
	case OpMove:
		return store.EventTaskMove, true
	}
	return "", false
}
