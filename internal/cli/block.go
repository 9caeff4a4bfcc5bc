package cli

import (
	"errors"

	flag "github.com/spf13/pflag"
)

var errBlockerRequired = errors.New("blocker id is required")

// BlockCmd returns the block command.
func BlockCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("block", flag.ContinueOnError),
		Usage: "block <id> <blocker>",
		Short: "Add a blocking dependency",
		Long: `Record that <blocker> blocks <id>: the task cannot be marked done while
the blocker is not done. Self-edges and cycles are rejected.`,
		Exec: func(io *IO, args []string) error {
			return execBlock(io, app, args)
		},
	}
}

func execBlock(io *IO, app *App, args []string) error {
	blocked, blocker, err := resolvePair(app, args)
	if err != nil {
		return err
	}

	err = app.Graph.AddEdge(blocker.ID, blocked.ID)
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	io.Println(blocked.Key, "blocked by", blocker.Key)

	return nil
}

// UnblockCmd returns the unblock command.
func UnblockCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("unblock", flag.ContinueOnError),
		Usage: "unblock <id> <blocker>",
		Short: "Remove a blocking dependency",
		Exec: func(io *IO, args []string) error {
			return execUnblock(io, app, args)
		},
	}
}

func execUnblock(io *IO, app *App, args []string) error {
	blocked, blocker, err := resolvePair(app, args)
	if err != nil {
		return err
	}

	err = app.Graph.RemoveEdge(blocker.ID, blocked.ID)
	if err != nil {
		return err
	}

	err = app.Save()
	if err != nil {
		return err
	}

	io.Println(blocked.Key, "no longer blocked by", blocker.Key)

	return nil
}

func resolvePair(app *App, args []string) (blocked, blocker taskPair, err error) {
	if len(args) == 0 {
		return taskPair{}, taskPair{}, errIDRequired
	}

	if len(args) < 2 {
		return taskPair{}, taskPair{}, errBlockerRequired
	}

	blockedTask, err := app.ResolveTask(args[0])
	if err != nil {
		return taskPair{}, taskPair{}, err
	}

	blockerTask, err := app.ResolveTask(args[1])
	if err != nil {
		return taskPair{}, taskPair{}, err
	}

	return taskPair{ID: blockedTask.ID, Key: blockedTask.Key},
		taskPair{ID: blockerTask.ID, Key: blockerTask.Key}, nil
}

// taskPair is the id/key pair commands print after resolving a reference.
type taskPair struct {
	ID  string
	Key string
}
