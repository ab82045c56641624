package board

import "taskboard/internal/model"

type LoadingKind string

const (
	LoadingCreate LoadingKind = "create"
	LoadingUpdate LoadingKind = "update"
	LoadingDelete LoadingKind = "delete"
)

// loadingKindFor maps an operation to the flag it holds while in flight.
// Moves share the update flag, so a move and an edit never overlap on one task.
func loadingKindFor(k OpKind) LoadingKind {
	switch k {
	case OpCreate:
		return LoadingCreate
	case OpDelete:
		return LoadingDelete
	default:
		return LoadingUpdate
	}
}

// loadingTracker holds busy flags. Only true entries are stored, so clearing a
// flag after its task was purged never resurrects a key.
type loadingTracker struct {
	create bool
	update map[string]bool
	delete map[string]bool
}

func newLoadingTracker() loadingTracker {
	return loadingTracker{update: map[string]bool{}, delete: map[string]bool{}}
}

func (l *loadingTracker) get(kind LoadingKind, id string) bool {
	switch kind {
	case LoadingCreate:
		return l.create
	case LoadingUpdate:
		return l.update[id]
	case LoadingDelete:
		return l.delete[id]
	}
	return false
}

func (l *loadingTracker) set(kind LoadingKind, id string, on bool) {
	switch kind {
	case LoadingCreate:
		l.create = on
	case LoadingUpdate:
		setFlag(l.update, id, on)
	case LoadingDelete:
		setFlag(l.delete, id, on)
	}
}

func setFlag(m map[string]bool, id string, on bool) {
	if on {
		m[id] = true
		return
	}
	delete(m, id)
}

// purge drops every flag for a deleted task.
func (l *loadingTracker) purge(id string) {
	delete(l.update, id)
	delete(l.delete, id)
}

func (l *loadingTracker) busy(id string) bool {
	return l.update[id] || l.delete[id]
}

func (l *loadingTracker) snapshot() model.LoadingState {
	out := model.LoadingState{
		Create: l.create,
		Update: make(map[string]bool, len(l.update)),
		Delete: make(map[string]bool, len(l.delete)),
	}
	for k, v := range l.update {
		out.Update[k] = v
	}
	for k, v := range l.delete {
		out.Delete[k] = v
	}
	return out
}
