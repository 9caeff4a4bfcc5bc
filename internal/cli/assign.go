package cli

import (
	flag "github.com/spf13/pflag"
)

// AssignCmd returns the assign command.
func AssignCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("assign", flag.ContinueOnError),
		Usage: "assign <id> [user...]",
		Short: "Replace task assignees",
		Long:  "Replace a task's assignee list. No users clears the list.",
		Exec: func(io *IO, args []string) error {
			return execAssign(io, app, args)
		},
	}
}

func execAssign(io *IO, app *App, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	t, err := app.ResolveTask(args[0])
	if err != nil {
		return err
	}

	updated, err := app.Engine.SetAssignees(t.ID, args[1:])
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	if len(updated.AssigneeIDs) == 0 {
		io.Println(updated.Key, "unassigned")
	} else {
		io.Println(updated.Key, "assigned to", updated.AssigneeIDs)
	}

	return nil
}
