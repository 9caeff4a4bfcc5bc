// Package grouping derives display views from task snapshots: temporal
// buckets, kanban columns, and sort orders.
//
// Everything here is a pure function over the slice it is given. Views are
// recomputed on demand from store snapshots; nothing is cached, so derived
// state can never desync from the collection.
package grouping

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/calvinalkan/taskboard/internal/task"
)

// Buckets partitions tasks by temporal state for list views.
type Buckets struct {
	Overdue  []task.Task
	Today    []task.Task
	Upcoming []task.Task
	Done     []task.Task
}

// GroupByTime places each task in exactly one bucket relative to now.
//
// Rules: done tasks are done regardless of due date. Otherwise a task whose
// due date falls on the same calendar day as now is today, even when the time
// of day has already passed - same-day is never overdue; that is deliberate
// product behavior, not a bug. Overdue requires an earlier calendar date.
// Everything else, including tasks without a due date, is upcoming.
// Calendar days are compared in UTC, matching the normalized storage of
// due dates.
func GroupByTime(tasks []task.Task, now time.Time) Buckets {
	var b Buckets

	now = now.UTC()

	for _, t := range tasks {
		switch {
		case t.Status == task.StatusDone:
			b.Done = append(b.Done, t)
		case t.DueAt.IsZero():
			b.Upcoming = append(b.Upcoming, t)
		case sameDay(t.DueAt, now):
			b.Today = append(b.Today, t)
		case t.DueAt.Before(now):
			b.Overdue = append(b.Overdue, t)
		default:
			b.Upcoming = append(b.Upcoming, t)
		}
	}

	b.Overdue = SortTasks(b.Overdue, SortDueDateAsc)
	b.Today = SortTasks(b.Today, SortDueDateAsc)
	b.Upcoming = SortTasks(b.Upcoming, SortDueDateAsc)
	b.Done = SortTasks(b.Done, SortDueDateAsc)

	return b
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()

	return ay == by && am == bm && ad == bd
}

// GroupByStatus partitions tasks into kanban columns keyed by the four
// statuses. Pure partition: input order is preserved within each column and
// every status key is present even when empty.
func GroupByStatus(tasks []task.Task) map[task.Status][]task.Task {
	cols := make(map[task.Status][]task.Task, 4)
	for _, s := range task.Statuses() {
		cols[s] = []task.Task{}
	}

	for _, t := range tasks {
		cols[t.Status] = append(cols[t.Status], t)
	}

	return cols
}

// SortOption selects a task ordering.
type SortOption string

// Supported sort options.
const (
	SortDueDateAsc   SortOption = "due_date_asc"
	SortPriorityDesc SortOption = "priority_desc"
	SortTitleAsc     SortOption = "title_asc"
)

// SortTasks returns a sorted copy of tasks. The input is never modified and
// re-sorting already-sorted input is a no-op.
//
// due_date_asc breaks ties by id; tasks without a due date sort last.
// priority_desc orders urgent > high > medium > low, ties by due date then
// id. title_asc compares titles locale-aware and case-insensitively.
func SortTasks(tasks []task.Task, opt SortOption) []task.Task {
	out := slices.Clone(tasks)

	switch opt {
	case SortPriorityDesc:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			if c := b.Priority.Rank() - a.Priority.Rank(); c != 0 {
				return c
			}

			if c := compareDue(a, b); c != 0 {
				return c
			}

			return strings.Compare(a.ID, b.ID)
		})
	case SortTitleAsc:
		cl := collate.New(language.Und, collate.IgnoreCase)

		slices.SortStableFunc(out, func(a, b task.Task) int {
			if c := cl.CompareString(a.Title, b.Title); c != 0 {
				return c
			}

			return strings.Compare(a.ID, b.ID)
		})
	default: // SortDueDateAsc
		slices.SortStableFunc(out, func(a, b task.Task) int {
			if c := compareDue(a, b); c != 0 {
				return c
			}

			return strings.Compare(a.ID, b.ID)
		})
	}

	return out
}

// compareDue orders by due date ascending, missing due dates last.
func compareDue(a, b task.Task) int {
	switch {
	case a.DueAt.IsZero() && b.DueAt.IsZero():
		return 0
	case a.DueAt.IsZero():
		return 1
	case b.DueAt.IsZero():
		return -1
	default:
		return a.DueAt.Compare(b.DueAt)
	}
}
