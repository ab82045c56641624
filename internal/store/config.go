package store

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir is the root for taskboard data (~/.taskboard by default).
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskboard).
	if v := strings.TrimSpace(os.Getenv("TASKBOARD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskboard"), nil
}

// DefaultDir is where the SQLite store lives when no --dir is given.
func DefaultDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "board"), nil
}
