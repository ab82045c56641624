package tui

import (
	"fmt"
	"strings"

	"taskboard/internal/filter"
	"taskboard/internal/model"
	"taskboard/internal/perm"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

func (m appModel) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m appModel) View() string {
	w, h := m.size()

	header := m.renderHeader(w)
	footer := m.renderFooter(w)
	bodyH := h - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	switch {
	case m.mode == modeDetail:
		body = m.renderDetail(w, bodyH)
	case m.view == viewGrid:
		body = m.renderGrid(w, bodyH)
	default:
		body = renderColumns(m.columns(), m.clamp(m.sel), m.cardMarker, w, bodyH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, normalizePane(body, w, bodyH), footer)
}

func (m appModel) renderHeader(w int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Task Board")

	who := "not signed in"
	if u := m.board.Actor(); u != nil {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = u.ID
		}
		who = fmt.Sprintf("%s (%s)", name, u.Role)
	}

	parts := []string{title, styleMuted().Render(m.view.String()), styleMuted().Render(who)}
	if m.criteria.Active() {
		parts = append(parts, styleMuted().Render(filterSummary(m.criteria)))
	}
	return truncate(strings.Join(parts, "  "), w)
}

func filterSummary(c filter.Criteria) string {
	var parts []string
	if s := strings.TrimSpace(c.Search); s != "" {
		parts = append(parts, fmt.Sprintf("search:%q", s))
	}
	if c.Priority != "" && c.Priority != filter.All {
		parts = append(parts, "priority:"+c.Priority)
	}
	if c.State != "" && c.State != filter.All {
		parts = append(parts, "state:"+c.State)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (m appModel) renderFooter(w int) string {
	var status string
	switch m.mode {
	case modeSearch:
		status = "Search " + m.input.View()
	case modeNewTitle:
		status = "New task " + m.input.View()
	case modeEditTitle:
		status = "Edit title " + m.input.View()
	case modeConfirmDelete:
		t, _ := m.selectedTask()
		status = lipgloss.NewStyle().Foreground(colorError).Render(fmt.Sprintf("Delete %q? (y/N)", t.Title))
	default:
		if m.toast.text != "" {
			st := lipgloss.NewStyle().Foreground(colorSuccess)
			if m.toast.isErr {
				st = lipgloss.NewStyle().Foreground(colorError)
			}
			status = st.Render(m.toast.text)
		}
	}

	hints := "n new  e edit  d delete  h/l move  / search  p priority  s state  v view  enter details  q quit"
	if m.mode == modeDetail {
		hints = "esc back"
	}
	return truncate(status, w) + "\n" + truncate(styleMuted().Render(hints), w)
}

// cardMarker is the left gutter for a card: a spinner while the task has an
// operation in flight.
func (m appModel) cardMarker(id string) string {
	if m.board.Busy(id) {
		return m.spinner.View()
	}
	return " "
}

func (m appModel) renderGrid(w, h int) string {
	tasks := m.visible()
	if len(tasks) == 0 {
		return styleMuted().Render(emptyMessage(m.criteria))
	}
	sel := m.clamp(m.sel)

	prioW, stateW, ownerW := 8, 12, 12
	titleW := w - 2 - prioW - stateW - ownerW - 3
	if titleW < 10 {
		titleW = 10
	}

	head := fmt.Sprintf("  %-*s %-*s %-*s %-*s", titleW, "TITLE", prioW, "PRIORITY", stateW, "STATE", ownerW, "OWNER")
	lines := []string{lipgloss.NewStyle().Bold(true).Render(truncate(head, w))}

	start := 0
	if sel.Row >= h-1 {
		start = sel.Row - (h - 2)
	}
	for i := start; i < len(tasks) && len(lines) < h; i++ {
		t := tasks[i]
		row := fmt.Sprintf("%s %s %s %s %s",
			m.cardMarker(t.ID),
			padRight(truncate(t.Title, titleW), titleW),
			priorityStyle(string(t.Priority)).Render(padRight(string(t.Priority), prioW)),
			padRight(t.State.Label(), stateW),
			padRight(truncate(t.OwnerID, ownerW), ownerW),
		)
		if i == sel.Row {
			row = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderDetail(w, h int) string {
	t, ok := m.selectedTask()
	if !ok {
		return ""
	}
	return renderMarkdown(taskMarkdown(t, m.board.Actor(), m.board.Busy(t.ID)), w-2)
}

func taskMarkdown(t model.Task, actor *model.UserProfile, busy bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	fmt.Fprintf(&b, "**Priority:** %s · **State:** %s · **Owner:** %s\n\n", t.Priority, t.State.Label(), t.OwnerID)
	if len(t.AssignedUsers) > 0 {
		fmt.Fprintf(&b, "**Assigned:** %s\n\n", strings.Join(t.AssignedUsers, ", "))
	}
	if strings.TrimSpace(t.Description) != "" {
		b.WriteString(t.Description)
		b.WriteString("\n\n")
	}
	if t.Image != "" {
		fmt.Fprintf(&b, "Image: <%s>\n\n", t.Image)
	}
	fmt.Fprintf(&b, "_Created %s, updated %s_\n\n", t.CreatedAt.Format("2006-01-02 15:04"), t.UpdatedAt.Format("2006-01-02 15:04"))

	p := perm.For(&t, actor)
	var can []string
	if p.CanEdit {
		can = append(can, "edit")
	}
	if p.CanDelete {
		can = append(can, "delete")
	}
	if p.CanUpdateStatus {
		can = append(can, "move")
	}
	if len(can) == 0 {
		b.WriteString("You can only view this task.\n")
	} else {
		fmt.Fprintf(&b, "You can %s this task.\n", strings.Join(can, ", "))
	}
	if busy {
		b.WriteString("\n> Saving…\n")
	}
	return b.String()
}

func emptyMessage(c filter.Criteria) string {
	if c.Active() {
		return "No tasks match the current filters (esc clears them)."
	}
	return "No tasks yet. Press n to create one."
}

func padRight(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

