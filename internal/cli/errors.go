package cli

import (
	"errors"
	"fmt"

	"taskboard/internal/mutate"
)

var errNotSignedIn = errors.New("not signed in; run `taskboard identity signin`")

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func errUsage(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func errTaskNotFound(id string) error {
	return mutate.NotFoundError{Kind: "task", ID: id}
}
