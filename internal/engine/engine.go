// Package engine applies task lifecycle changes: single-task status and
// priority transitions, field edits, deletes, and bulk operations over a
// selected set of tasks.
package engine

import (
	"fmt"

	"github.com/calvinalkan/taskboard/internal/depgraph"
	"github.com/calvinalkan/taskboard/internal/store"
	"github.com/calvinalkan/taskboard/internal/task"
)

// Engine is the mutation facade over the store and dependency graph.
// All errors are returned as discriminated kinds (see internal/task), never
// panicked, so hosts can render them inline per task.
type Engine struct {
	store *store.Store
	graph *depgraph.Graph
}

// New returns an engine over the given store and graph.
func New(s *store.Store, g *depgraph.Graph) *Engine {
	return &Engine{store: s, graph: g}
}

// Transition moves a task to the next status.
//
// The one hard rule: moving to done fails with BlockedByDependency while any
// upstream blocker is not done; the error names the first blocking task so
// the host can say "cannot complete - blocked by TASK-99". Every other
// transition, including reopening a done task, succeeds unconditionally.
// Transitioning to the current status is a no-op success: no event, no
// UpdatedAt bump.
func (e *Engine) Transition(taskID string, next task.Status) (task.Task, error) {
	if !task.IsValidStatus(next) {
		return task.Task{}, fmt.Errorf("%w: status %q", task.ErrValidationFailed, next)
	}

	t, err := e.store.Get(taskID)
	if err != nil {
		return task.Task{}, err
	}

	if t.Status == next {
		return t, nil
	}

	if next == task.StatusDone {
		if blockers := e.graph.UnresolvedBlockers(taskID); len(blockers) > 0 {
			return task.Task{}, fmt.Errorf("%w %s", task.ErrBlockedByDependency, blockers[0].Key)
		}
	}

	t.Status = next

	return e.store.Upsert(t)
}

// SetPriority changes a task's priority. No gating rule: any valid value
// transition is permitted.
func (e *Engine) SetPriority(taskID string, p task.Priority) (task.Task, error) {
	if !task.IsValidPriority(p) {
		return task.Task{}, fmt.Errorf("%w: %q", task.ErrInvalidPriority, p)
	}

	t, err := e.store.Get(taskID)
	if err != nil {
		return task.Task{}, err
	}

	if t.Priority == p {
		return t, nil
	}

	t.Priority = p

	return e.store.Upsert(t)
}

// SetAssignees replaces a task's assignee list.
func (e *Engine) SetAssignees(taskID string, assigneeIDs []string) (task.Task, error) {
	t, err := e.store.Get(taskID)
	if err != nil {
		return task.Task{}, err
	}

	t.AssigneeIDs = append([]string(nil), assigneeIDs...)

	return e.store.Upsert(t)
}

// DeleteTask removes a task. Without force the delete fails with
// DependencyViolation while the task actively blocks others.
func (e *Engine) DeleteTask(taskID string, force bool) error {
	return e.store.Delete(taskID, force)
}
