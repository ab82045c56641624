package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// State is a task's workflow state. Kanban columns map 1:1 to states.
type State string

const (
	StateTodo  State = "todo"
	StateDoing State = "doing"
	StateDone  State = "done"
)

// States lists workflow states in column order.
var States = []State{StateTodo, StateDoing, StateDone}

func (s State) Valid() bool {
	switch s {
	case StateTodo, StateDoing, StateDone:
		return true
	}
	return false
}

// Label is the human column title for s.
func (s State) Label() string {
	switch s {
	case StateTodo:
		return "To Do"
	case StateDoing:
		return "In Progress"
	case StateDone:
		return "Done"
	default:
		return string(s)
	}
}

type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Priority      Priority  `json:"priority"`
	State         State     `json:"state"`
	Image         string    `json:"image,omitempty"`
	OwnerID       string    `json:"ownerId"`
	AssignedUsers []string  `json:"assignedUsers"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of t. AssignedUsers is never nil on the copy.
func (t Task) Clone() Task {
	out := t
	out.AssignedUsers = append([]string{}, t.AssignedUsers...)
	return out
}

// IsAssigned reports whether userID is one of the task's assignees.
func (t Task) IsAssigned(userID string) bool {
	if userID == "" {
		return false
	}
	for _, u := range t.AssignedUsers {
		if u == userID {
			return true
		}
	}
	return false
}

// Draft is the input for task creation: a task without id, owner or timestamps.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	State       State    `json:"state"`
	Image       string   `json:"image,omitempty"`
}

// Patch carries the fields an update changes. Nil fields are left as they are.
type Patch struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Priority      *Priority `json:"priority,omitempty"`
	State         *State    `json:"state,omitempty"`
	Image         *string   `json:"image,omitempty"`
	AssignedUsers *[]string `json:"assignedUsers,omitempty"`
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.State == nil && p.Image == nil && p.AssignedUsers == nil
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// NormalizeRole maps any identity-provider role onto admin|employee.
func NormalizeRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}

type UserProfile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

func (u *UserProfile) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LoadingState mirrors the per-operation busy flags shown by the board.
type LoadingState struct {
	Create bool            `json:"create"`
	Update map[string]bool `json:"update"`
	Delete map[string]bool `json:"delete"`
}

// Event is one entry of the mutation log.
type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	ActorID  string    `json:"actorId"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
