package cli

import (
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/task"
)

var errIDRequired = errors.New("task id or key is required")

// ShowCmd returns the show command.
func ShowCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Show task details",
		Long:  "Show a task's fields, blockers, blocked tasks, and subtask progress.",
		Exec: func(io *IO, args []string) error {
			return execShow(io, app, args)
		},
	}
}

func execShow(io *IO, app *App, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	t, err := app.ResolveTask(args[0])
	if err != nil {
		return err
	}

	io.Printf("%s  %s\n", t.Key, t.Title)
	io.Printf("  status:    %s\n", t.Status)
	io.Printf("  priority:  %s\n", t.Priority)

	if !t.DueAt.IsZero() {
		io.Printf("  due:       %s\n", t.DueAt.Format(dueDateLayout))
	}

	if t.EstimatedHours > 0 {
		io.Printf("  estimate:  %.1fh\n", t.EstimatedHours)
	}

	if len(t.AssigneeIDs) > 0 {
		io.Printf("  assignees: %v\n", t.AssigneeIDs)
	}

	if t.ParentID != "" {
		parent, parentErr := app.Store.Get(t.ParentID)
		if parentErr == nil {
			io.Printf("  parent:    %s\n", parent.Key)
		}
	}

	if done, total := app.Graph.Progress(t.ID); total > 0 {
		io.Printf("  subtasks:  %d/%d done\n", done, total)
	}

	printRelated(io, "blocked by", app.Graph.Blockers(t.ID))
	printRelated(io, "blocks", app.Graph.Blocking(t.ID))

	if t.Description != "" {
		io.Println()
		io.Println(t.Description)
	}

	return nil
}

func printRelated(io *IO, label string, related []task.Task) {
	for _, r := range related {
		marker := ""
		if r.Status == task.StatusDone {
			marker = " (done)"
		}

		io.Printf("  %s: %s%s\n", label, r.Key, marker)
	}
}
