package store

import (
	"strings"
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
)

// Event types written by the board for each committed mutation.
const (
	EventTaskCreate  = "task.create"
	EventTaskUpdate  = "task.update"
	EventTaskDelete  = "task.delete"
	EventTaskMove    = "task.move"
	EventUserSignIn  = "user.signin"
	EventUserSignOut = "user.signout"
)

func newEvent(actorID, typ, entityID string, payload any) (model.Event, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID:       "evt-" + id.String(),
		TS:       time.Now().UTC(),
		ActorID:  strings.TrimSpace(actorID),
		Type:     strings.TrimSpace(typ),
		EntityID: strings.TrimSpace(entityID),
		Payload:  payload,
	}, nil
}

func reverseEvents(evs []model.Event) {
	for i, j := 0, len(evs)-1; i < j; i, j = i+1, j-1 {
		evs[i], evs[j] = evs[j], evs[i]
	}
}
