package cli

import (
	"errors"

	flag "github.com/spf13/pflag"
)

var errParentRequired = errors.New("parent id is required (or pass --clear)")

// SubtaskCmd returns the subtask command.
func SubtaskCmd(app *App) *Command {
	fs := flag.NewFlagSet("subtask", flag.ContinueOnError)
	fs.Bool("clear", false, "Detach the task from its parent")

	return &Command{
		Flags: fs,
		Usage: "subtask <id> [parent]",
		Short: "Attach a task as subtask of a parent",
		Long: `Attach a task under a parent. Parent progress (done/total) is derived
from subtask statuses, never stored. A task cannot become its own
ancestor.`,
		Exec: func(io *IO, args []string) error {
			return execSubtask(io, app, fs, args)
		},
	}
}

func execSubtask(io *IO, app *App, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	child, err := app.ResolveTask(args[0])
	if err != nil {
		return err
	}

	clear, _ := fs.GetBool("clear")
	if clear {
		err = app.Graph.SetParent(child.ID, "")
		if err != nil {
			return err
		}

		err = app.Save()
		if err != nil {
			return err
		}

		io.Println(child.Key, "detached")

		return nil
	}

	if len(args) < 2 {
		return errParentRequired
	}

	parent, err := app.ResolveTask(args[1])
	if err != nil {
		return err
	}

	err = app.Graph.SetParent(child.ID, parent.ID)
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	io.Println(child.Key, "is now a subtask of", parent.Key)

	return nil
}
