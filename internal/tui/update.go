package tui

import (
	"strings"

	"taskboard/internal/board"
	"taskboard/internal/filter"
	"taskboard/internal/model"
	"taskboard/internal/perm"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const msgBusy = "Task is busy, please wait"

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.inflight <= 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		if msg.err == nil && !msg.res.Changed {
			return m, nil
		}
		m.setToast(board.Toast(msg.op.Kind, msg.err), msg.err != nil)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeNewTitle, modeEditTitle:
			return m.updateTitleInput(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeDetail:
			return m.updateDetail(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "v":
		if m.view == viewGrid {
			m.view = viewKanban
		} else {
			m.view = viewGrid
		}
		m.sel = m.clamp(m.sel)
		return m, nil

	case "up", "k":
		m.sel = m.clamp(m.sel)
		m.sel.Row--
		m.sel.TaskID = ""
		m.sel = m.clamp(m.sel)
		return m, nil
	case "down", "j":
		m.sel = m.clamp(m.sel)
		m.sel.Row++
		m.sel.TaskID = ""
		m.sel = m.clamp(m.sel)
		return m, nil
	case "left", "right":
		if m.view == viewKanban {
			m.sel = m.clamp(m.sel)
			if msg.String() == "left" {
				m.sel.Col--
			} else {
				m.sel.Col++
			}
			m.sel.TaskID = ""
			m.sel = m.clamp(m.sel)
		}
		return m, nil

	case "h", "shift+left":
		return m.moveSelected(-1)
	case "l", "shift+right":
		return m.moveSelected(+1)

	case "n":
		if m.board.Actor() == nil {
			m.setToast("Sign in to create tasks", true)
			return m, nil
		}
		if m.board.Loading(board.LoadingCreate, "") {
			m.setToast(msgBusy, true)
			return m, nil
		}
		m.mode = modeNewTitle
		m.input.Placeholder = "Task title"
		m.input.SetValue("")
		return m, m.input.Focus()

	case "e":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if m.board.Busy(t.ID) {
			m.setToast(msgBusy, true)
			return m, nil
		}
		if !perm.CanEdit(&t, m.board.Actor()) {
			m.setToast("You cannot edit this task", true)
			return m, nil
		}
		m.mode = modeEditTitle
		m.input.Placeholder = ""
		m.input.SetValue(t.Title)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "d":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if m.board.Busy(t.ID) {
			m.setToast(msgBusy, true)
			return m, nil
		}
		if !perm.CanDelete(&t, m.board.Actor()) {
			m.setToast("You cannot delete this task", true)
			return m, nil
		}
		m.mode = modeConfirmDelete
		return m, nil

	case "/":
		m.mode = modeSearch
		m.prevSearch = m.criteria.Search
		m.input.Placeholder = "Search titles"
		m.input.SetValue(m.criteria.Search)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "p":
		m.criteria.Priority = filter.Next(filter.PriorityChoices, m.criteria.Priority)
		m.sel = m.clamp(m.sel)
		return m, nil
	case "s":
		m.criteria.State = filter.Next(filter.StateChoices, m.criteria.State)
		m.sel = m.clamp(m.sel)
		return m, nil
	case "esc":
		m.criteria = filter.Criteria{Priority: filter.All, State: filter.All}
		m.sel = m.clamp(m.sel)
		return m, nil

	case "enter":
		if _, ok := m.selectedTask(); ok {
			m.mode = modeDetail
		}
		return m, nil
	}
	return m, nil
}

// moveSelected is the keyboard form of dragging a card one column over.
func (m appModel) moveSelected(delta int) (tea.Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	idx := -1
	for i, s := range model.States {
		if s == t.State {
			idx = i
		}
	}
	next := idx + delta
	if idx < 0 || next < 0 || next >= len(model.States) {
		return m, nil
	}
	if m.board.Busy(t.ID) {
		m.setToast(msgBusy, true)
		return m, nil
	}

	p, err := m.board.BeginMove(t.ID, model.States[next])
	if err != nil {
		m.setToast(board.Toast(board.OpMove, err), true)
		return m, nil
	}
	m.sel.TaskID = t.ID
	m.sel = m.clamp(m.sel)
	return m, m.await(p)
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		m.criteria.Search = m.prevSearch
		m.sel = m.clamp(m.sel)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.criteria.Search = m.input.Value()
	m.sel = m.clamp(m.sel)
	return m, cmd
}

func (m appModel) updateTitleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeNormal
		m.input.Blur()
		if mode == modeNewTitle {
			return m.create(title)
		}
		return m.rename(title)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) create(title string) (tea.Model, tea.Cmd) {
	p, err := m.board.BeginCreate(model.Draft{
		Title:    title,
		Priority: model.PriorityMedium,
		State:    m.focusedState(),
	})
	if err != nil {
		m.setToast(board.Toast(board.OpCreate, err), true)
		return m, nil
	}
	m.sel.TaskID = p.Op().TaskID
	return m, m.await(p)
}

func (m appModel) rename(title string) (tea.Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	p, err := m.board.BeginUpdate(t.ID, model.Patch{Title: &title})
	if err != nil {
		m.setToast(board.Toast(board.OpUpdate, err), true)
		return m, nil
	}
	return m, m.await(p)
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	if s := msg.String(); s != "y" && s != "Y" {
		return m, nil
	}
	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	p, err := m.board.BeginDelete(t.ID)
	if err != nil {
		m.setToast(board.Toast(board.OpDelete, err), true)
		return m, nil
	}
	return m, m.await(p)
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.mode = modeNormal
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}
