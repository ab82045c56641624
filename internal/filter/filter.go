package filter

import (
	"fmt"
	"strings"

	"taskboard/internal/model"
)

// All matches every priority or state.
const All = "all"

// Criteria narrows the task list shown by the board. Empty Priority/State
// behave like All.
type Criteria struct {
	Search   string `json:"search"`
	Priority string `json:"priority"`
	State    string `json:"state"`
}

// Active reports whether c hides anything.
func (c Criteria) Active() bool {
	return c.Search != "" || !isAll(c.Priority) || !isAll(c.State)
}

// Match reports whether t passes every criterion. Search is a case-insensitive
// substring match taken verbatim, surrounding spaces included.
func (c Criteria) Match(t model.Task) bool {
	if q := strings.ToLower(c.Search); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) {
			return false
		}
	}
	if !isAll(c.Priority) && string(t.Priority) != c.Priority {
		return false
	}
	if !isAll(c.State) && string(t.State) != c.State {
		return false
	}
	return true
}

// Apply returns the tasks matching c in their original order. tasks is not modified.
func Apply(tasks []model.Task, c Criteria) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == All
}

// ParsePriority accepts "", "all" or a priority name.
func ParsePriority(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == All {
		return All, nil
	}
	if !model.Priority(s).Valid() {
		return "", fmt.Errorf("invalid priority filter %q (expected all|low|medium|high)", s)
	}
	return s, nil
}

// ParseState accepts "", "all", a state id or a column label such as "In Progress".
func ParseState(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return All, nil
	}
	st, err := model.ParseState(s)
	if err != nil {
		return "", fmt.Errorf("invalid state filter %q (expected all|todo|doing|done)", s)
	}
	return string(st), nil
}

// PriorityChoices and StateChoices are the cycle orders used by the board.
var (
	PriorityChoices = []string{All, string(model.PriorityLow), string(model.PriorityMedium), string(model.PriorityHigh)}
	StateChoices    = []string{All, string(model.StateTodo), string(model.StateDoing), string(model.StateDone)}
)

// Next returns the choice after cur, wrapping around.
func Next(choices []string, cur string) string {
	if isAll(cur) {
		cur = All
	}
	for i, c := range choices {
		if c == cur {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

// Column is one kanban column.
type Column struct {
	State model.State
	Label string
	Tasks []model.Task
}

// Columns groups tasks into one column per workflow state (todo, doing, done),
// keeping store order within each column. Tasks with an unknown state are dropped.
func Columns(tasks []model.Task) []Column {
	cols := make([]Column, 0, len(model.States))
	idx := map[model.State]int{}
	for i, s := range model.States {
		cols = append(cols, Column{State: s, Label: s.Label(), Tasks: []model.Task{}})
		idx[s] = i
	}
	for _, t := range tasks {
		i, ok := idx[t.State]
		if !ok {
			continue
		}
		cols[i].Tasks = append(cols[i].Tasks, t.Clone())
	}
	return cols
}
