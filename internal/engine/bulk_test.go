package engine_test

import (
	"errors"
	"testing"

	"github.com/calvinalkan/taskboard/internal/engine"
	"github.com/calvinalkan/taskboard/internal/task"
)

func TestBulkSetStatusPartialFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	blocker := f.create(t, "blocker")
	blocked := f.create(t, "blocked")
	free := f.create(t, "free")

	if err := f.graph.AddEdge(blocker.ID, blocked.ID); err != nil {
		t.Fatal(err)
	}

	res := f.engine.Apply(engine.BulkOperation{
		TargetIDs: []string{blocked.ID, free.ID},
		Op:        engine.BulkSetStatus,
		Payload:   engine.BulkPayload{Status: task.StatusDone},
	})

	if len(res.Succeeded) != 1 || res.Succeeded[0] != free.ID {
		t.Errorf("succeeded = %v, want [%s]", res.Succeeded, free.ID)
	}

	if len(res.Failed) != 1 {
		t.Fatalf("failed = %v, want exactly one", res.Failed)
	}

	if res.Failed[0].TaskID != blocked.ID {
		t.Errorf("failed id = %s, want %s", res.Failed[0].TaskID, blocked.ID)
	}

	if !errors.Is(res.Failed[0].Err, task.ErrBlockedByDependency) {
		t.Errorf("failed err = %v, want ErrBlockedByDependency", res.Failed[0].Err)
	}

	// The successful target really changed.
	got, err := f.store.Get(free.ID)
	if err != nil {
		t.Fatal(err)
	}

	if got.Status != task.StatusDone {
		t.Errorf("free status = %s, want done", got.Status)
	}
}

func TestBulkEnumeratesEveryTargetOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.create(t, "a")
	b := f.create(t, "b")

	res := f.engine.Apply(engine.BulkOperation{
		TargetIDs: []string{a.ID, "ghost", b.ID},
		Op:        engine.BulkSetPriority,
		Payload:   engine.BulkPayload{Priority: task.PriorityHigh},
	})

	if got := len(res.Succeeded) + len(res.Failed); got != 3 {
		t.Fatalf("enumerated %d targets, want 3", got)
	}

	if len(res.Succeeded) != 2 {
		t.Errorf("succeeded = %v, want [a b]", res.Succeeded)
	}

	if len(res.Failed) != 1 || !errors.Is(res.Failed[0].Err, task.ErrNotFound) {
		t.Errorf("failed = %v, want ghost with ErrNotFound", res.Failed)
	}
}

func TestBulkSetAssignee(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.create(t, "a")
	b := f.create(t, "b")

	res := f.engine.Apply(engine.BulkOperation{
		TargetIDs: []string{a.ID, b.ID},
		Op:        engine.BulkSetAssignee,
		Payload:   engine.BulkPayload{AssigneeIDs: []string{"u9"}},
	})

	if len(res.Failed) != 0 {
		t.Fatalf("failed = %v", res.Failed)
	}

	for _, id := range []string{a.ID, b.ID} {
		got, err := f.store.Get(id)
		if err != nil {
			t.Fatal(err)
		}

		if len(got.AssigneeIDs) != 1 || got.AssigneeIDs[0] != "u9" {
			t.Errorf("assignees of %s = %v, want [u9]", id, got.AssigneeIDs)
		}
	}
}

func TestBulkDeleteNeverForces(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	blocker := f.create(t, "blocker")
	blocked := f.create(t, "blocked")

	if err := f.graph.AddEdge(blocker.ID, blocked.ID); err != nil {
		t.Fatal(err)
	}

	res := f.engine.Apply(engine.BulkOperation{
		TargetIDs: []string{blocker.ID, blocked.ID},
		Op:        engine.BulkDelete,
	})

	if len(res.Failed) != 1 || !errors.Is(res.Failed[0].Err, task.ErrDependencyViolation) {
		t.Fatalf("failed = %v, want blocker vetoed", res.Failed)
	}

	// The blocker survived, its downstream task did not.
	if _, err := f.store.Get(blocker.ID); err != nil {
		t.Errorf("blocker gone: %v", err)
	}

	if _, err := f.store.Get(blocked.ID); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("blocked err = %v, want ErrNotFound", err)
	}
}

func TestBulkRejectsUnknownOp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.create(t, "a")

	res := f.engine.Apply(engine.BulkOperation{
		TargetIDs: []string{a.ID},
		Op:        engine.BulkOp("archive"),
	})

	if len(res.Failed) != 1 || !errors.Is(res.Failed[0].Err, task.ErrValidationFailed) {
		t.Errorf("failed = %v, want ErrValidationFailed", res.Failed)
	}
}
