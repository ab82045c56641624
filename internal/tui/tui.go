package tui

import (
	"taskboard/internal/board"
	"taskboard/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

// Run opens the interactive board restored to ui. It returns once the program
// exits and every mutation started from it has settled, along with the view and
// filters to restore next time.
func Run(b *board.Coordinator, logger *log.Logger, ui store.UIState) (store.UIState, error) {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(b, logger)
	m.restore(ui)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	m.wg.Wait()
	if err != nil {
		logger.WithError(err).Error("board exited")
		return ui, err
	}
	if fm, ok := final.(appModel); ok {
		return fm.uiState(), nil
	}
	return ui, nil
}
