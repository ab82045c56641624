package tui

import (
	"context"
	"sync"

	"taskboard/internal/board"
	"taskboard/internal/filter"
	"taskboard/internal/model"
	"taskboard/internal/store"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

type viewKind int

const (
	viewGrid viewKind = iota
	viewKanban
)

func (v viewKind) String() string {
	if v == viewKanban {
		return "kanban"
	}
	return "grid"
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeNewTitle
	modeEditTitle
	modeConfirmDelete
	modeDetail
)

// selection tracks the focused card. TaskID wins over the indexes so focus
// follows a card across filtering and moves.
type selection struct {
	Col    int
	Row    int
	TaskID string
}

type toast struct {
	text  string
	isErr bool
}

// opDoneMsg is delivered when a pending mutation settles.
type opDoneMsg struct {
	op  board.Op
	res board.Result
	err error
}

type appModel struct {
	board *board.Coordinator
	log   *log.Logger

	width  int
	height int

	view     viewKind
	mode     inputMode
	criteria filter.Criteria
	sel      selection

	input   textinput.Model
	spinner spinner.Model
	toast   toast

	// inflight counts mutations awaiting acknowledgement; the spinner only ticks
	// while it is positive. wg lets Run let them settle before returning.
	inflight int
	wg       *sync.WaitGroup

	// prevSearch restores the search when a search edit is cancelled.
	prevSearch string
}

func newAppModel(b *board.Coordinator, logger *log.Logger) appModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return appModel{
		board:    b,
		log:      logger,
		view:     viewKanban,
		criteria: filter.Criteria{Priority: filter.All, State: filter.All},
		input:    ti,
		spinner:  sp,
		wg:       &sync.WaitGroup{},
	}
}

func (m appModel) Init() tea.Cmd {
	return nil
}

// restore applies a saved view and filters. Unknown values fall back to the defaults.
func (m *appModel) restore(ui store.UIState) {
	switch ui.View {
	case "grid":
		m.view = viewGrid
	case "kanban":
		m.view = viewKanban
	}
	m.criteria.Search = ui.Search
	if p, err := filter.ParsePriority(ui.Priority); err == nil {
		m.criteria.Priority = p
	}
	if s, err := filter.ParseState(ui.State); err == nil {
		m.criteria.State = s
	}
	m.sel = m.clamp(selection{TaskID: ui.SelectedTaskID})
}

func (m appModel) uiState() store.UIState {
	return store.UIState{
		Version:        1,
		View:           m.view.String(),
		Search:         m.criteria.Search,
		Priority:       m.criteria.Priority,
		State:          m.criteria.State,
		SelectedTaskID: m.clamp(m.sel).TaskID,
	}
}

// visible is the filtered projection in store order.
func (m appModel) visible() []model.Task {
	return filter.Apply(m.board.Tasks(), m.criteria)
}

func (m appModel) columns() []filter.Column {
	return filter.Columns(m.visible())
}

// clamp resolves the selection against what is currently visible.
func (m appModel) clamp(sel selection) selection {
	if m.view == viewGrid {
		tasks := m.visible()
		if sel.TaskID != "" {
			for i, t := range tasks {
				if t.ID == sel.TaskID {
					sel.Row = i
					return sel
				}
			}
		}
		if len(tasks) == 0 {
			return selection{Row: -1}
		}
		sel.Row = clampInt(sel.Row, 0, len(tasks)-1)
		sel.TaskID = tasks[sel.Row].ID
		return sel
	}

	cols := m.columns()
	if sel.TaskID != "" {
		for ci, c := range cols {
			for ri, t := range c.Tasks {
				if t.ID == sel.TaskID {
					sel.Col, sel.Row = ci, ri
					return sel
				}
			}
		}
	}
	sel.Col = clampInt(sel.Col, 0, len(cols)-1)
	n := len(cols[sel.Col].Tasks)
	if n == 0 {
		return selection{Col: sel.Col, Row: -1}
	}
	sel.Row = clampInt(sel.Row, 0, n-1)
	sel.TaskID = cols[sel.Col].Tasks[sel.Row].ID
	return sel
}

func (m appModel) selectedTask() (model.Task, bool) {
	sel := m.clamp(m.sel)
	if sel.TaskID == "" {
		return model.Task{}, false
	}
	return m.board.Task(sel.TaskID)
}

// focusedState is the state new tasks get: the focused column in kanban, todo otherwise.
func (m appModel) focusedState() model.State {
	if m.view == viewKanban {
		sel := m.clamp(m.sel)
		if sel.Col >= 0 && sel.Col < len(model.States) {
			return model.States[sel.Col]
		}
	}
	return model.StateTodo
}

// await runs p.Wait off the update loop and keeps the spinner going meanwhile.
func (m *appModel) await(p *board.Pending) tea.Cmd {
	m.inflight++
	m.wg.Add(1)
	wg := m.wg
	wait := func() tea.Msg {
		defer wg.Done()
		res, err := p.Wait(context.Background())
		return opDoneMsg{op: p.Op(), res: res, err: err}
	}
	if m.inflight == 1 {
		return tea.Batch(wait, m.spinner.Tick)
	}
	return wait
}

func (m *appModel) setToast(text string, isErr bool) {
	m.toast = toast{text: text, isErr: isErr}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
