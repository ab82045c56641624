package model

import (
	"errors"
	"testing"
)

func TestDraftValidate(t *testing.T) {
	ok := Draft{Title: "Write plan", Priority: PriorityMedium, State: StateTodo}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid draft; got %v", err)
	}

	cases := []struct {
		name  string
		draft Draft
		field string
	}{
		{"missing title", Draft{Title: "  ", Priority: PriorityLow, State: StateTodo}, "title"},
		{"short title", Draft{Title: "ab", Priority: PriorityLow, State: StateTodo}, "title"},
		{"bad priority", Draft{Title: "abc", Priority: "urgent", State: StateTodo}, "priority"},
		{"bad state", Draft{Title: "abc", Priority: PriorityLow, State: "blocked"}, "state"},
		{"bad image", Draft{Title: "abc", Priority: PriorityLow, State: StateTodo, Image: "not a url"}, "image"},
	}
	for _, tc := range cases {
		err := tc.draft.Validate()
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError; got %v", tc.name, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("%s: expected field %q; got %q", tc.name, tc.field, ve.Field)
		}
	}

	withImage := ok
	withImage.Image = "https://example.com/a.png"
	if err := withImage.Validate(); err != nil {
		t.Fatalf("expected image url to validate; got %v", err)
	}
}

func TestParseState_AcceptsLabels(t *testing.T) {
	st, err := ParseState("In Progress")
	if err != nil || st != StateDoing {
		t.Fatalf("expected doing; got %q err=%v", st, err)
	}
	if _, err := ParseState("later"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestTaskClone_NeverNilAssignees(t *testing.T) {
	c := Task{ID: "t1"}.Clone()
	if c.AssignedUsers == nil {
		t.Fatalf("expected non-nil assignees")
	}

	orig := Task{ID: "t1", AssignedUsers: []string{"u1"}}
	c = orig.Clone()
	c.AssignedUsers[0] = "u2"
	if orig.AssignedUsers[0] != "u1" {
		t.Fatalf("clone shares assignee backing array")
	}
}

func TestNormalizeRole(t *testing.T) {
	if NormalizeRole("admin") != RoleAdmin {
		t.Fatalf("expected admin")
	}
	for _, r := range []string{"", "employee", "manager", "Admin"} {
		if NormalizeRole(r) != RoleEmployee {
			t.Fatalf("expected %q to normalize to employee", r)
		}
	}
}
