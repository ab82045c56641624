package mutate

import (
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/perm"
)

type UpdateResult struct {
	Task         model.Task
	Changed      bool
	EventPayload map[string]any
}

// ApplyPatch merges p into a copy of existing. id, owner and createdAt are preserved;
// updatedAt moves to now when anything changed.
func ApplyPatch(existing model.Task, p model.Patch, actor *model.UserProfile, now time.Time) (UpdateResult, error) {
	if actor == nil || strings.TrimSpace(actor.ID) == "" {
		return UpdateResult{}, ErrAuthorizationRequired
	}
	if !perm.CanEdit(&existing, actor) {
		return UpdateResult{}, denied(actor, existing.ID, "edit")
	}

	next := existing.Clone()
	payload := map[string]any{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title != next.Title {
			next.Title = title
			payload["title"] = title
		}
	}
	if p.Description != nil && *p.Description != next.Description {
		next.Description = *p.Description
		payload["description"] = next.Description
	}
	if p.Priority != nil && *p.Priority != next.Priority {
		next.Priority = *p.Priority
		payload["priority"] = string(next.Priority)
	}
	if p.State != nil && *p.State != next.State {
		payload["from"] = string(next.State)
		next.State = *p.State
		payload["to"] = string(next.State)
	}
	if p.Image != nil {
		img := strings.TrimSpace(*p.Image)
		if img != next.Image {
			next.Image = img
			payload["image"] = img
		}
	}
	if p.AssignedUsers != nil {
		users := normalizeUsers(*p.AssignedUsers)
		if !sameUsers(users, next.AssignedUsers) {
			next.AssignedUsers = users
			payload["assignedUsers"] = users
		}
	}

	if err := next.Validate(); err != nil {
		return UpdateResult{}, err
	}
	if len(payload) == 0 {
		return UpdateResult{Task: existing.Clone(), Changed: false}, nil
	}

	next.UpdatedAt = laterOf(now.UTC(), next.CreatedAt)
	return UpdateResult{Task: next, Changed: true, EventPayload: payload}, nil
}

// normalizeUsers trims, drops empties and de-duplicates while keeping order.
func normalizeUsers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, u := range in {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func sameUsers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// laterOf keeps updatedAt >= createdAt even with a skewed clock.
func laterOf(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}
