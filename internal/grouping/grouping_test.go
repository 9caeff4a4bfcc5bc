package grouping_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/taskboard/internal/grouping"
	"github.com/calvinalkan/taskboard/internal/task"
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func mk(id, title string, p task.Priority, due time.Time) task.Task {
	return task.Task{
		ID:       id,
		Title:    title,
		Status:   task.StatusNotStarted,
		Priority: p,
		DueAt:    due,
	}
}

func titles(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}

	return out
}

func TestGroupByTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

	done := mk("01", "done", task.PriorityLow, day(1))
	done.Status = task.StatusDone

	tasks := []task.Task{
		mk("02", "overdue", task.PriorityMedium, day(10)),
		mk("03", "today-morning", task.PriorityMedium, day(15)),
		mk("04", "upcoming", task.PriorityMedium, day(20)),
		mk("05", "undated", task.PriorityMedium, time.Time{}),
		done,
	}

	b := grouping.GroupByTime(tasks, now)

	want := map[string][]string{
		"overdue":  {"overdue"},
		"today":    {"today-morning"},
		"upcoming": {"upcoming", "undated"},
		"done":     {"done"},
	}

	got := map[string][]string{
		"overdue":  titles(b.Overdue),
		"today":    titles(b.Today),
		"upcoming": titles(b.Upcoming),
		"done":     titles(b.Done),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByTimeSameDayIsNeverOverdue(t *testing.T) {
	t.Parallel()

	// Due at 09:00, now 23:59 the same day. The hour has passed but the
	// calendar day has not, so the task is today, not overdue.
	now := time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC)
	due := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

	b := grouping.GroupByTime([]task.Task{mk("01", "a", task.PriorityMedium, due)}, now)

	if len(b.Overdue) != 0 {
		t.Error("same-day task landed in overdue")
	}

	if len(b.Today) != 1 {
		t.Errorf("today = %v, want the task", titles(b.Today))
	}
}

func TestGroupByTimeDoneWinsOverDue(t *testing.T) {
	t.Parallel()

	now := day(20)

	overdueButDone := mk("01", "a", task.PriorityMedium, day(1))
	overdueButDone.Status = task.StatusDone

	b := grouping.GroupByTime([]task.Task{overdueButDone}, now)

	if len(b.Done) != 1 || len(b.Overdue) != 0 {
		t.Errorf("done task with a past due date must bucket as done, got done=%d overdue=%d",
			len(b.Done), len(b.Overdue))
	}
}

func TestGroupByStatusAllColumnsPresent(t *testing.T) {
	t.Parallel()

	inReview := mk("01", "a", task.PriorityMedium, time.Time{})
	inReview.Status = task.StatusInReview

	cols := grouping.GroupByStatus([]task.Task{inReview})

	if len(cols) != 4 {
		t.Fatalf("columns = %d, want 4", len(cols))
	}

	for _, s := range task.Statuses() {
		if _, ok := cols[s]; !ok {
			t.Errorf("missing column %s", s)
		}
	}

	if len(cols[task.StatusInReview]) != 1 {
		t.Errorf("in_review column = %v", titles(cols[task.StatusInReview]))
	}
}

func TestSortTasksPriorityDesc(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		mk("01", "low", task.PriorityLow, day(3)),
		mk("02", "urgent", task.PriorityUrgent, day(1)),
		mk("03", "high", task.PriorityHigh, day(2)),
	}

	got := titles(grouping.SortTasks(tasks, grouping.SortPriorityDesc))

	want := []string{"urgent", "high", "low"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortTasksPriorityDescTiesByDueDate(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		mk("01", "later", task.PriorityHigh, day(9)),
		mk("02", "sooner", task.PriorityHigh, day(2)),
		mk("03", "undated", task.PriorityHigh, time.Time{}),
	}

	got := titles(grouping.SortTasks(tasks, grouping.SortPriorityDesc))

	want := []string{"sooner", "later", "undated"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortTasksDueDateAsc(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		mk("01", "undated", task.PriorityMedium, time.Time{}),
		mk("02", "late", task.PriorityMedium, day(20)),
		mk("03", "early", task.PriorityMedium, day(2)),
	}

	got := titles(grouping.SortTasks(tasks, grouping.SortDueDateAsc))

	want := []string{"early", "late", "undated"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortTasksTitleAscIgnoresCase(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		mk("01", "banana", task.PriorityMedium, time.Time{}),
		mk("02", "Apple", task.PriorityMedium, time.Time{}),
		mk("03", "cherry", task.PriorityMedium, time.Time{}),
	}

	got := titles(grouping.SortTasks(tasks, grouping.SortTitleAsc))

	want := []string{"Apple", "banana", "cherry"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortTasksIsIdempotentAndCopies(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		mk("02", "b", task.PriorityLow, day(2)),
		mk("01", "a", task.PriorityHigh, day(1)),
	}

	once := grouping.SortTasks(tasks, grouping.SortPriorityDesc)
	twice := grouping.SortTasks(once, grouping.SortPriorityDesc)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("re-sort changed order (-once +twice):\n%s", diff)
	}

	if tasks[0].Title != "b" {
		t.Error("input slice was mutated")
	}
}
