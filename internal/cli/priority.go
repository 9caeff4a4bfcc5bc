package cli

import (
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/task"
)

var errPriorityRequired = errors.New("priority is required (low|medium|high|urgent)")

// PriorityCmd returns the priority command.
func PriorityCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("priority", flag.ContinueOnError),
		Usage: "priority <id> <level>",
		Short: "Set task priority",
		Long:  "Set a task's priority. Any value transition is valid.",
		Exec: func(io *IO, args []string) error {
			return execPriority(io, app, args)
		},
	}
}

func execPriority(io *IO, app *App, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	if len(args) < 2 {
		return errPriorityRequired
	}

	t, err := app.ResolveTask(args[0])
	if err != nil {
		return err
	}

	priority, err := task.ParsePriority(args[1])
	if err != nil {
		return err
	}

	updated, err := app.Engine.SetPriority(t.ID, priority)
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	io.Println(updated.Key, "priority:", string(updated.Priority))

	return nil
}
