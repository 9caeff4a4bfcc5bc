// Package store implements the canonical in-memory task collection.
//
// The store is the single source of truth for the engine packages. All
// mutations flow through Upsert/Delete so change notification has exactly one
// emission point. The store does no internal locking: it assumes a single
// logical writer (a host event loop); multi-threaded hosts must serialize
// calls themselves.
package store

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/calvinalkan/taskboard/internal/task"
)

// ChangeKind describes what happened to a task.
type ChangeKind string

// ChangeKind values carried by change events.
const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Event is delivered to listeners after every mutation, synchronously and in
// mutation order. Task is the full post-mutation value (the pre-deletion
// value for ChangeDeleted).
type Event struct {
	Kind ChangeKind
	Task task.Task
}

// Listener observes store mutations. Listeners run in registration order.
type Listener func(Event)

// DeleteGuard vetoes non-forced deletes. The dependency graph registers one
// to protect active blockers.
type DeleteGuard func(taskID string) error

// Store holds the task collection and project reference data.
type Store struct {
	tasks     map[string]task.Task
	projects  map[string]task.ProjectRef
	seqs      map[string]int64 // projectID -> last assigned key sequence
	listeners []Listener
	guard     DeleteGuard
	now       func() time.Time
}

// New returns an empty store using the real clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty store with an injected clock for
// deterministic timestamps.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		tasks:    make(map[string]task.Task),
		projects: make(map[string]task.ProjectRef),
		seqs:     make(map[string]int64),
		now:      now,
	}
}

// AddProject registers project reference data. Projects are read-only from
// the engine's point of view; re-adding an ID overwrites the reference.
func (s *Store) AddProject(p task.ProjectRef) {
	s.projects[p.ID] = p
}

// Project looks up project reference data by ID.
func (s *Store) Project(id string) (task.ProjectRef, error) {
	p, ok := s.projects[id]
	if !ok {
		return task.ProjectRef{}, fmt.Errorf("%w: %s", task.ErrProjectNotFound, id)
	}

	return p, nil
}

// Projects returns all registered projects sorted by key.
func (s *Store) Projects() []task.ProjectRef {
	out := make([]task.ProjectRef, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b task.ProjectRef) int {
		return strings.Compare(a.Key, b.Key)
	})

	return out
}

// OnChange registers a mutation listener. Listeners fire synchronously with
// the mutating call, in registration order.
func (s *Store) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// SetDeleteGuard installs the guard consulted by non-forced deletes.
func (s *Store) SetDeleteGuard(g DeleteGuard) {
	s.guard = g
}

// Get returns a copy of the task, or ErrNotFound.
func (s *Store) Get(id string) (task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}

	return t.Clone(), nil
}

// Upsert inserts or updates a task and emits one change event.
//
// On first insert the store assigns ID, key (<PROJECT>-<seq>, sequence
// monotonic per project and never reused even after delete), and CreatedAt.
// On update, ID, key, project, and CreatedAt are immutable; UpdatedAt is
// bumped either way.
func (s *Store) Upsert(t task.Task) (task.Task, error) {
	err := s.validate(t)
	if err != nil {
		return task.Task{}, err
	}

	now := s.now().UTC()
	t = t.Clone()

	if !t.DueAt.IsZero() {
		t.DueAt = t.DueAt.UTC()
	}

	existing, exists := s.tasks[t.ID]
	if t.ID != "" && !exists {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, t.ID)
	}

	if exists {
		if t.Key != existing.Key {
			return task.Task{}, fmt.Errorf("%w: key", task.ErrImmutableField)
		}

		if t.ProjectID != existing.ProjectID {
			return task.Task{}, fmt.Errorf("%w: project", task.ErrImmutableField)
		}

		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = now
		s.tasks[t.ID] = t
		s.emit(Event{Kind: ChangeUpdated, Task: t.Clone()})

		return t, nil
	}

	id, err := s.uniqueID(now)
	if err != nil {
		return task.Task{}, err
	}

	project := s.projects[t.ProjectID]
	s.seqs[t.ProjectID]++

	t.ID = id
	t.Key = fmt.Sprintf("%s-%d", project.Key, s.seqs[t.ProjectID])
	t.CreatedAt = now
	t.UpdatedAt = now

	s.tasks[t.ID] = t
	s.emit(Event{Kind: ChangeCreated, Task: t.Clone()})

	return t, nil
}

// Delete removes a task and emits one deleted event. Without force, the
// registered delete guard may veto the call (active blockers fail with
// DependencyViolation). Cascades (edge removal, subtask orphaning) are
// driven by listeners observing the deleted event.
func (s *Store) Delete(id string, force bool) error {
	t, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}

	if !force && s.guard != nil {
		guardErr := s.guard(id)
		if guardErr != nil {
			return guardErr
		}
	}

	delete(s.tasks, id)
	s.emit(Event{Kind: ChangeDeleted, Task: t.Clone()})

	return nil
}

// ClearParent detaches a subtask from its parent without touching other
// fields. Used by the dependency graph when a parent is deleted.
func (s *Store) ClearParent(id string) {
	t, ok := s.tasks[id]
	if !ok || t.ParentID == "" {
		return
	}

	t.ParentID = ""
	t.UpdatedAt = s.now().UTC()
	s.tasks[id] = t
	s.emit(Event{Kind: ChangeUpdated, Task: t.Clone()})
}

// Restore inserts a previously persisted task verbatim: ID, key, and
// timestamps are kept as-is. Emits a created event so derived indexes
// rebuild. Parent links are not checked here because snapshot order is
// arbitrary; the graph index tolerates forward references.
func (s *Store) Restore(t task.Task) error {
	if t.ID == "" || t.Key == "" {
		return fmt.Errorf("%w: restore requires id and key", task.ErrValidationFailed)
	}

	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", task.ErrValidationFailed, t.ID)
	}

	if !task.IsValidStatus(t.Status) {
		return fmt.Errorf("%w: status %q", task.ErrValidationFailed, t.Status)
	}

	if !task.IsValidPriority(t.Priority) {
		return fmt.Errorf("%w: %q", task.ErrInvalidPriority, t.Priority)
	}

	t = t.Clone()
	s.tasks[t.ID] = t
	s.emit(Event{Kind: ChangeCreated, Task: t.Clone()})

	return nil
}

// Sequences exports the per-project key sequences for persistence.
func (s *Store) Sequences() map[string]int64 {
	out := make(map[string]int64, len(s.seqs))
	for k, v := range s.seqs {
		out[k] = v
	}

	return out
}

// RestoreSequence reinstates a persisted key sequence. Sequences only move
// forward so keys are never reissued across restarts.
func (s *Store) RestoreSequence(projectID string, seq int64) {
	if seq > s.seqs[projectID] {
		s.seqs[projectID] = seq
	}
}

// List returns copies of all tasks matching the predicate, sorted by ID
// (oldest first). A nil predicate matches everything.
func (s *Store) List(pred func(task.Task) bool) []task.Task {
	out := make([]task.Task, 0, len(s.tasks))

	for _, t := range s.tasks {
		if pred == nil || pred(t) {
			out = append(out, t.Clone())
		}
	}

	slices.SortFunc(out, func(a, b task.Task) int {
		return strings.Compare(a.ID, b.ID)
	})

	return out
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) emit(ev Event) {
	for _, l := range s.listeners {
		l(ev)
	}
}

func (s *Store) validate(t task.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", task.ErrValidationFailed)
	}

	if !task.IsValidStatus(t.Status) {
		return fmt.Errorf("%w: status %q", task.ErrValidationFailed, t.Status)
	}

	if !task.IsValidPriority(t.Priority) {
		return fmt.Errorf("%w: %q", task.ErrInvalidPriority, t.Priority)
	}

	if _, ok := s.projects[t.ProjectID]; !ok {
		return fmt.Errorf("%w: %s", task.ErrProjectNotFound, t.ProjectID)
	}

	if t.ParentID != "" {
		if _, ok := s.tasks[t.ParentID]; !ok {
			return fmt.Errorf("%w: parent %s", task.ErrNotFound, t.ParentID)
		}
	}

	return nil
}

const maxSuffixLength = 4

// uniqueID generates an ID that doesn't collide with an existing task.
// On collision, appends letter suffixes (a, b, ..., z, za, zb, ...).
func (s *Store) uniqueID(now time.Time) (string, error) {
	base := task.GenerateID(now)

	if _, taken := s.tasks[base]; !taken {
		return base, nil
	}

	suffix := ""

	for {
		suffix = task.NextSuffix(suffix)
		candidate := base + suffix

		if _, taken := s.tasks[candidate]; !taken {
			return candidate, nil
		}

		// Safety limit to prevent infinite loop
		if len(suffix) > maxSuffixLength {
			return "", task.ErrIDGenerationFailed
		}
	}
}
