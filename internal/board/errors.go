package board

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when the same kind of mutation is already in flight for a task.
var ErrBusy = errors.New("operation already in progress")

// OperationFailedError wraps a backend rejection. Optimistic changes have been rolled back
// by the time it is returned.
type OperationFailedError struct {
	Op     OpKind
	TaskID string
	Cause  error
}

func (e OperationFailedError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.TaskID, e.Cause)
}

func (e OperationFailedError) Unwrap() error { return e.Cause }
