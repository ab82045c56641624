package model

import (
	"fmt"
	"net/url"
	"strings"
)

const MinTitleLen = 3

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the fields a task must satisfy regardless of how it was built.
func (t Task) Validate() error {
	return validateFields(t.Title, t.Priority, t.State, t.Image)
}

func (d Draft) Validate() error {
	return validateFields(d.Title, d.Priority, d.State, d.Image)
}

func validateFields(title string, p Priority, s State, image string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Reason: "title is required"}
	}
	if len([]rune(title)) < MinTitleLen {
		return ValidationError{Field: "title", Reason: fmt.Sprintf("title must be at least %d characters", MinTitleLen)}
	}
	if !p.Valid() {
		return ValidationError{Field: "priority", Reason: fmt.Sprintf("invalid priority %q", p)}
	}
	if !s.Valid() {
		return ValidationError{Field: "state", Reason: fmt.Sprintf("invalid state %q", s)}
	}
	if image = strings.TrimSpace(image); image != "" {
		u, err := url.Parse(image)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError{Field: "image", Reason: "must be a valid URL"}
		}
	}
	return nil
}

// ParsePriority parses a priority name (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ValidationError{Field: "priority", Reason: fmt.Sprintf("invalid priority %q", s)}
	}
	return p, nil
}

// ParseState parses a state name. Column labels ("In Progress") are accepted too.
func ParseState(s string) (State, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, st := range States {
		if norm == string(st) || norm == strings.ToLower(st.Label()) {
			return st, nil
		}
	}
	return "", ValidationError{Field: "state", Reason: fmt.Sprintf("invalid state %q", s)}
}
