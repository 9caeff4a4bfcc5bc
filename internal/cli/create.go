package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/task"
)

var errTitleRequired = errors.New("task title is required")

// dueDateLayout is the accepted --due format.
const dueDateLayout = "2006-01-02"

// CreateCmd returns the create command.
func CreateCmd(app *App) *Command {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.StringP("project", "p", "", "Project key (defaults to default_project)")
	fs.String("due", "", "Due date (YYYY-MM-DD)")
	fs.String("priority", string(task.DefaultPriority), "Priority (low|medium|high|urgent)")
	fs.StringP("describe", "d", "", "Description")
	fs.StringSlice("assignee", nil, "Assignee id (repeatable)")
	fs.Float64("estimate", 0, "Estimated hours")
	fs.String("parent", "", "Parent task (id or key) to attach as subtask")

	return &Command{
		Flags: fs,
		Usage: "create <title> [flags]",
		Short: "Create a task",
		Long: `Create a task in a project.

The task starts as not_started and gets the next free key in the project
(e.g. WEB-12). Keys are never reused, even after deletes.`,
		Exec: func(io *IO, args []string) error {
			return execCreate(io, app, fs, args)
		},
	}
}

func execCreate(io *IO, app *App, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errTitleRequired
	}

	title := strings.Join(args, " ")

	projectRef, _ := fs.GetString("project")

	project, err := app.ResolveProject(projectRef)
	if err != nil {
		return err
	}

	priorityLabel, _ := fs.GetString("priority")

	priority, err := task.ParsePriority(priorityLabel)
	if err != nil {
		return err
	}

	t := task.Task{
		ProjectID: project.ID,
		Title:     title,
		Status:    task.StatusNotStarted,
		Priority:  priority,
	}

	if due, _ := fs.GetString("due"); due != "" {
		dueAt, parseErr := time.ParseInLocation(dueDateLayout, due, time.UTC)
		if parseErr != nil {
			return fmt.Errorf("%w: %q is not YYYY-MM-DD", task.ErrInvalidDate, due)
		}

		t.DueAt = dueAt
	}

	t.Description, _ = fs.GetString("describe")
	t.AssigneeIDs, _ = fs.GetStringSlice("assignee")
	t.EstimatedHours, _ = fs.GetFloat64("estimate")

	if parentRef, _ := fs.GetString("parent"); parentRef != "" {
		parent, resolveErr := app.ResolveTask(parentRef)
		if resolveErr != nil {
			return resolveErr
		}

		t.ParentID = parent.ID
	}

	created, err := app.Store.Upsert(t)
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	io.Println(created.Key)

	return nil
}
