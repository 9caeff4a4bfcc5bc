package engine

import (
	"fmt"

	"github.com/calvinalkan/taskboard/internal/task"
)

// BulkOp selects the single-task operation a bulk request applies.
type BulkOp string

// Supported bulk operations.
const (
	BulkSetStatus   BulkOp = "set_status"
	BulkSetPriority BulkOp = "set_priority"
	BulkSetAssignee BulkOp = "set_assignee"
	BulkDelete      BulkOp = "delete"
)

// BulkPayload carries the per-op argument. Only the field matching the op is
// read.
type BulkPayload struct {
	Status      task.Status
	Priority    task.Priority
	AssigneeIDs []string
}

// BulkOperation is one logical edit applied across a selected set of tasks.
// It is ephemeral: never persisted, it exists only for the duration of Apply.
type BulkOperation struct {
	TargetIDs []string
	Op        BulkOp
	Payload   BulkPayload
}

// BulkFailure records one target that could not be changed.
type BulkFailure struct {
	TaskID string
	Err    error
}

// BulkResult enumerates every input target exactly once across
// Succeeded and Failed, in input order.
type BulkResult struct {
	Succeeded []string
	Failed    []BulkFailure
}

// Apply runs the operation against each target independently. It is not
// all-or-nothing: one blocked or missing target never rolls back or stops
// the others. Bulk delete never forces; active blockers are reported as
// failed with DependencyViolation.
func (e *Engine) Apply(op BulkOperation) BulkResult {
	var res BulkResult

	for _, id := range op.TargetIDs {
		err := e.applyOne(id, op)
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{TaskID: id, Err: err})

			continue
		}

		res.Succeeded = append(res.Succeeded, id)
	}

	return res
}

func (e *Engine) applyOne(id string, op BulkOperation) error {
	switch op.Op {
	case BulkSetStatus:
		_, err := e.Transition(id, op.Payload.Status)

		return err
	case BulkSetPriority:
		_, err := e.SetPriority(id, op.Payload.Priority)

		return err
	case BulkSetAssignee:
		_, err := e.SetAssignees(id, op.Payload.AssigneeIDs)

		return err
	case BulkDelete:
		return e.DeleteTask(id, false)
	default:
		return fmt.Errorf("%w: unknown bulk op %q", task.ErrValidationFailed, op.Op)
	}
}
