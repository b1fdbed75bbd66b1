package mapper

import "fmt"

// task is one unit of a Map call: it applies the transform to a single input
// element, writes slot index of the call's result slice and reports to the
// call's gate. A task is created once and completed exactly once, either by
// execute or by abandon.
type task struct {
	index int
	gate  *gate
	tag   bool
	call  func() error
}

// newTask creates a task; with tag set its failures carry index (see ExtractTaskIndex).
func newTask(index int, g *gate, tag bool, call func() error) *task {
	return &task{index: index, gate: g, tag: tag, call: call}
}

// execute runs the task and records its outcome. Panics are recovered into
// ErrTaskPanicked so the executing worker keeps running.
func (t *task) execute() error {
	err := t.annotate(execTask(t.call))
	t.gate.complete(err)
	return err
}

// abandon completes the task without running it.
func (t *task) abandon(reason error) {
	t.gate.complete(t.annotate(reason))
}

// annotate tags a failure with the task index unless tagging is off or a
// tag is already present.
func (t *task) annotate(err error) error {
	if err == nil || !t.tag {
		return err
	}
	if _, ok := ExtractTaskIndex(err); ok {
		return err
	}
	return newTaskTaggedError(err, t.index)
}

// execTask centralizes panic recovery for a task call.
func execTask(call func() error) (err error) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, ePanic)
		}
	}()
	return call()
}
