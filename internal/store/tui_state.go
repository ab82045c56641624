package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const uiStateFileName = "tui_state.json"

// UIState is the board's last view and filters, restored on relaunch.
//
// It lives next to the board data so it is scoped per board directory. Loading is
// best effort: missing or invalid data yields the defaults.
type UIState struct {
	Version int `json:"version"`

	// View is one of: kanban|grid
	View string `json:"view,omitempty"`

	Search   string `json:"search,omitempty"`
	Priority string `json:"priority,omitempty"`
	State    string `json:"state,omitempty"`

	SelectedTaskID string `json:"selectedTaskId,omitempty"`
}

func uiStatePath(dir string) string {
	return filepath.Join(filepath.Clean(dir), uiStateFileName)
}

func LoadUIState(dir string) (*UIState, error) {
	if strings.TrimSpace(dir) == "" {
		return &UIState{Version: 1}, nil
	}
	b, err := os.ReadFile(uiStatePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted: treat as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

// SaveUIState writes st atomically. An empty dir (e.g. a Redis-backed board) is a no-op.
func SaveUIState(dir string, st *UIState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := uiStatePath(dir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
