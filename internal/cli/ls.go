package cli

import (
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/grouping"
	"github.com/calvinalkan/taskboard/internal/task"
)

// LsCmd returns the ls command.
func LsCmd(app *App) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.String("status", "", "Filter by status (not_started|in_progress|in_review|done)")
	fs.String("priority", "", "Filter by priority (low|medium|high|urgent)")
	fs.StringP("project", "p", "", "Filter by project key")
	fs.String("bucket", "", "Show one temporal bucket (overdue|today|upcoming|done)")
	fs.String("sort", string(grouping.SortDueDateAsc),
		"Sort order (due_date_asc|priority_desc|title_asc)")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List tasks",
		Long: `List tasks, optionally filtered and sorted.

Without --bucket all tasks are listed. With --bucket, tasks are grouped
relative to now: done tasks are always in done; a task due today is today
even when the time of day has passed; overdue means an earlier calendar day.`,
		Exec: func(io *IO, args []string) error {
			return execLs(io, app, fs)
		},
	}
}

var (
	errInvalidSort   = errors.New("invalid sort (valid: due_date_asc, priority_desc, title_asc)")
	errInvalidBucket = errors.New("invalid bucket (valid: overdue, today, upcoming, done)")
)

func execLs(io *IO, app *App, fs *flag.FlagSet) error {
	pred, err := buildPredicate(app, fs)
	if err != nil {
		return err
	}

	sortOpt := grouping.SortOption(mustString(fs, "sort"))

	switch sortOpt {
	case grouping.SortDueDateAsc, grouping.SortPriorityDesc, grouping.SortTitleAsc:
	default:
		return errInvalidSort
	}

	tasks := app.Store.List(pred)

	if bucket := mustString(fs, "bucket"); bucket != "" {
		buckets := grouping.GroupByTime(tasks, time.Now())

		switch bucket {
		case "overdue":
			tasks = buckets.Overdue
		case "today":
			tasks = buckets.Today
		case "upcoming":
			tasks = buckets.Upcoming
		case "done":
			tasks = buckets.Done
		default:
			return errInvalidBucket
		}
	}

	tasks = grouping.SortTasks(tasks, sortOpt)

	if len(tasks) == 0 {
		io.ErrPrintln("no tasks")

		return nil
	}

	for _, t := range tasks {
		io.Println(formatTaskLine(app, t))
	}

	return nil
}

func buildPredicate(app *App, fs *flag.FlagSet) (func(task.Task) bool, error) {
	var (
		status   task.Status
		priority task.Priority
		project  string
		err      error
	)

	if raw := mustString(fs, "status"); raw != "" {
		status, err = task.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
	}

	if raw := mustString(fs, "priority"); raw != "" {
		priority, err = task.ParsePriority(raw)
		if err != nil {
			return nil, err
		}
	}

	if raw := mustString(fs, "project"); raw != "" {
		p, resolveErr := app.ResolveProject(raw)
		if resolveErr != nil {
			return nil, resolveErr
		}

		project = p.ID
	}

	return func(t task.Task) bool {
		if status != "" && t.Status != status {
			return false
		}

		if priority != "" && t.Priority != priority {
			return false
		}

		if project != "" && t.ProjectID != project {
			return false
		}

		return true
	}, nil
}

func formatTaskLine(app *App, t task.Task) string {
	due := "-"
	if !t.DueAt.IsZero() {
		due = t.DueAt.Format(dueDateLayout)
	}

	blocked := ""
	if t.Status != task.StatusDone && app.Graph.IsBlocked(t.ID) {
		blocked = "  [blocked]"
	}

	return fmt.Sprintf("%-10s [%s] %-7s %-10s %s%s",
		t.Key, t.Status, t.Priority, due, t.Title, blocked)
}

func mustString(fs *flag.FlagSet, name string) string {
	v, _ := fs.GetString(name)

	return v
}
