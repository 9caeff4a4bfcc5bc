package cli

import (
	flag "github.com/spf13/pflag"
)

// RmCmd returns the rm command.
func RmCmd(app *App) *Command {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.Bool("force", false, "Delete even if the task actively blocks others")

	return &Command{
		Flags: fs,
		Usage: "rm <id> [--force]",
		Short: "Delete a task",
		Long: `Delete a task. Fails while the task actively blocks another non-done
task unless --force is given. Deleting cascades: dependency edges are
removed and subtasks become top-level tasks.`,
		Exec: func(io *IO, args []string) error {
			return execRm(io, app, fs, args)
		},
	}
}

func execRm(io *IO, app *App, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	t, err := app.ResolveTask(args[0])
	if err != nil {
		return err
	}

	force, _ := fs.GetBool("force")

	err = app.Engine.DeleteTask(t.ID, force)
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	io.Println("Deleted", t.Key)

	return nil
}
