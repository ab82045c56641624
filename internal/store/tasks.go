package store

import (
	"fmt"
	"strings"

	"taskboard/internal/model"
)

// Tasks is the in-memory task table. Iteration order is insertion order.
//
// Tasks is not safe for concurrent use; its owner serializes access.
type Tasks struct {
	items []model.Task
}

func NewTasks(ts []model.Task) *Tasks {
	out := &Tasks{items: make([]model.Task, 0, len(ts))}
	for _, t := range ts {
		out.items = append(out.items, t.Clone())
	}
	return out
}

func (s *Tasks) index(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the task with the given id.
func (s *Tasks) Find(id string) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.items[i].Clone(), true
}

// Insert appends t. Ids must be unique and non-empty.
func (s *Tasks) Insert(t model.Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("insert task: empty id")
	}
	if s.index(t.ID) >= 0 {
		return fmt.Errorf("insert task: duplicate id %s", t.ID)
	}
	s.items = append(s.items, t.Clone())
	return nil
}

// Replace overwrites the stored task with the same id, keeping its position.
// It reports false when no such task exists.
func (s *Tasks) Replace(t model.Task) bool {
	i := s.index(t.ID)
	if i < 0 {
		return false
	}
	s.items[i] = t.Clone()
	return true
}

// Remove deletes the task with the given id and reports whether it existed.
func (s *Tasks) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// All returns copies of every task in store order.
func (s *Tasks) All() []model.Task {
	out := make([]model.Task, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t.Clone())
	}
	return out
}
