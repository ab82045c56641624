package store

import (
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

var ErrDoctorIssuesFound = errors.New("doctor found errors")

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`

	TaskID  string `json:"taskId,omitempty"`
	EventID string `json:"eventId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

func (r DoctorReport) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Issues))
	for _, it := range r.Issues {
		ref := it.TaskID
		if ref == "" {
			ref = it.EventID
		}
		rows = append(rows, []string{string(it.Level), it.Code, ref, it.Message})
	}
	return []string{"LEVEL", "CODE", "REF", "MESSAGE"}, rows
}

var knownEventTypes = map[string]bool{
	EventTaskCreate:  true,
	EventTaskUpdate:  true,
	EventTaskDelete:  true,
	EventTaskMove:    true,
	EventUserSignIn:  true,
	EventUserSignOut: true,
}

// Doctor checks a persisted board and its mutation log for states the board
// would never produce itself (hand edits, foreign writers to a shared Redis key).
func Doctor(st *State, evs []model.Event) DoctorReport {
	issues := []DoctorIssue{}
	add := func(level DoctorIssueLevel, code, taskID, format string, args ...any) {
		issues = append(issues, DoctorIssue{Level: level, Code: code, TaskID: taskID, Message: fmt.Sprintf(format, args...)})
	}

	if st == nil {
		return DoctorReport{Issues: []DoctorIssue{{Level: DoctorIssueLevelError, Code: "state_missing", Message: ErrNilState.Error()}}}
	}
	if st.Version != Version {
		add(DoctorIssueLevelWarn, "state_version", "", "state version %d (expected %d)", st.Version, Version)
	}

	seen := map[string]bool{}
	for _, t := range st.Tasks {
		if strings.TrimSpace(t.ID) == "" {
			add(DoctorIssueLevelError, "task_id_missing", "", "task %q has no id", t.Title)
			continue
		}
		if seen[t.ID] {
			add(DoctorIssueLevelError, "task_id_duplicate", t.ID, "task id appears more than once")
		}
		seen[t.ID] = true

		if err := t.Validate(); err != nil {
			add(DoctorIssueLevelError, "task_invalid", t.ID, "%v", err)
		}
		if strings.TrimSpace(t.OwnerID) == "" {
			add(DoctorIssueLevelError, "task_owner_missing", t.ID, "task has no owner")
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			add(DoctorIssueLevelWarn, "task_time_order", t.ID, "updatedAt %s is before createdAt %s", t.UpdatedAt, t.CreatedAt)
		}
		dup := map[string]bool{}
		for _, u := range t.AssignedUsers {
			if dup[u] {
				add(DoctorIssueLevelWarn, "task_assignee_duplicate", t.ID, "user %s is assigned twice", u)
			}
			dup[u] = true
		}
	}

	if u := st.User; u != nil {
		if strings.TrimSpace(u.ID) == "" {
			add(DoctorIssueLevelError, "user_id_missing", "", "signed-in user has no id")
		}
		if u.Role != model.RoleAdmin && u.Role != model.RoleEmployee {
			add(DoctorIssueLevelWarn, "user_role_unknown", "", "role %q is treated as employee", u.Role)
		}
	}

	for _, ev := range evs {
		if !knownEventTypes[ev.Type] {
			issues = append(issues, DoctorIssue{
				Level:   DoctorIssueLevelWarn,
				Code:    "event_type_unknown",
				EventID: ev.ID,
				Message: fmt.Sprintf("unknown event type %q", ev.Type),
			})
		}
	}

	return DoctorReport{Issues: issues}
}
