package store

import (
	"context"
	"encoding/json"
	"errors"

	"taskboard/internal/model"
)

const Version = 1

// State is the persisted state tree. Only the whitelisted keys "tasks" and
// "user" are stored; loading flags never are.
type State struct {
	Version int                `json:"version"`
	Tasks   []model.Task       `json:"tasks"`
	User    *model.UserProfile `json:"user"`
}

// StateStore persists the whole state tree and the mutation log.
type StateStore interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
	AppendEvent(ctx context.Context, actorID, typ, entityID string, payload any) error
	ReadEvents(ctx context.Context, limit int) ([]model.Event, error)
}

var ErrNilState = errors.New("nil state")

func emptyState() *State {
	return &State{Version: Version, Tasks: []model.Task{}}
}

// normalize fills defaults so callers never see nil task slices or nil assignees.
func (st *State) normalize() {
	if st.Version == 0 {
		st.Version = Version
	}
	if st.Tasks == nil {
		st.Tasks = []model.Task{}
	}
	for i := range st.Tasks {
		if st.Tasks[i].AssignedUsers == nil {
			st.Tasks[i].AssignedUsers = []string{}
		}
	}
	if st.User != nil && st.User.Permissions == nil {
		st.User.Permissions = []string{}
	}
}

func decodeState(b []byte) (*State, error) {
	st := emptyState()
	if len(b) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(b, st); err != nil {
		return nil, err
	}
	st.normalize()
	return st, nil
}
