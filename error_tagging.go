package mapper

import (
	"errors"
	"fmt"
)

// TaskMetaError exposes the input index of a failed task.
type TaskMetaError interface {
	error
	Unwrap() error
	TaskIndex() (int, bool)
}

type taskTaggedError struct {
	err   error
	index int
}

func newTaskTaggedError(err error, index int) error {
	if err == nil {
		return nil
	}
	return &taskTaggedError{err: err, index: index}
}

func (e *taskTaggedError) Error() string { return e.err.Error() }
func (e *taskTaggedError) Unwrap() error { return e.err }

func (e *taskTaggedError) TaskIndex() (int, bool) { return e.index, true }

func (e *taskTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(index=%d): %+v", e.index, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractTaskIndex returns the input index of the task that produced err, if tagged.
// For an *AggregateError it reports the first tagged cause, checking Primary
// before the Secondary failures in order.
func ExtractTaskIndex(err error) (int, bool) {
	var tme TaskMetaError
	if errors.As(err, &tme) {
		return tme.TaskIndex()
	}
	return 0, false
}
