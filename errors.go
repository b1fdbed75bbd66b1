package mapper

import (
	"errors"
	"fmt"
	"strings"
)

const Namespace = "mapper"

var (
	ErrInvalidArgument = errors.New(Namespace + ": invalid argument")
	ErrInvalidConfig   = errors.New(Namespace + ": invalid configuration")
	ErrInterruptedWait = errors.New(Namespace + ": wait interrupted")
	ErrClosed          = errors.New(Namespace + ": pool is closed")
	ErrTaskPanicked    = errors.New(Namespace + ": task execution panicked")
)

// AggregateError reports every failed task of one Map call.
// Primary is the first failure recorded by the completion gate, which depends on
// completion order rather than input order. Secondary holds the remaining failures
// in the order they were recorded.
type AggregateError struct {
	Primary   error
	Secondary []error
}

func (e *AggregateError) Error() string {
	if len(e.Secondary) == 0 {
		return e.Primary.Error()
	}
	return fmt.Sprintf("%s (and %d more)", e.Primary.Error(), len(e.Secondary))
}

// Unwrap exposes the primary and all secondary failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return append([]error{e.Primary}, e.Secondary...)
}

// Len returns the total number of failures.
func (e *AggregateError) Len() int { return 1 + len(e.Secondary) }

func (e *AggregateError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			var b strings.Builder
			_, _ = fmt.Fprintf(&b, "%d task(s) failed: %+v", e.Len(), e.Primary)
			for _, err := range e.Secondary {
				_, _ = fmt.Fprintf(&b, "; suppressed: %+v", err)
			}
			_, _ = fmt.Fprint(s, b.String())
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}
