package cli

import (
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/task"
)

// StartCmd returns the start command.
func StartCmd(app *App) *Command {
	return transitionCmd(app, "start", task.StatusInProgress,
		"Move task to in_progress")
}

// ReviewCmd returns the review command.
func ReviewCmd(app *App) *Command {
	return transitionCmd(app, "review", task.StatusInReview,
		"Move task to in_review")
}

// DoneCmd returns the done command.
func DoneCmd(app *App) *Command {
	cmd := transitionCmd(app, "done", task.StatusDone,
		"Mark task done")
	cmd.Long = `Mark a task done.

Fails while any blocker of the task is not done; the error names the
blocking task. All other transitions are always permitted.`

	return cmd
}

// ReopenCmd returns the reopen command.
func ReopenCmd(app *App) *Command {
	return transitionCmd(app, "reopen", task.StatusNotStarted,
		"Reopen task as not_started")
}

func transitionCmd(app *App, name string, next task.Status, short string) *Command {
	return &Command{
		Flags: flag.NewFlagSet(name, flag.ContinueOnError),
		Usage: name + " <id>",
		Short: short,
		Exec: func(io *IO, args []string) error {
			return execTransition(io, app, next, args)
		},
	}
}

func execTransition(io *IO, app *App, next task.Status, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	t, err := app.ResolveTask(args[0])
	if err != nil {
		return err
	}

	updated, err := app.Engine.Transition(t.ID, next)
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	io.Println(updated.Key, "->", string(updated.Status))

	return nil
}
