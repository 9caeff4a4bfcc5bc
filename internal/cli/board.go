package cli

import (
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/grouping"
	"github.com/calvinalkan/taskboard/internal/task"
)

// BoardCmd returns the board command.
func BoardCmd(app *App) *Command {
	fs := flag.NewFlagSet("board", flag.ContinueOnError)
	fs.StringP("project", "p", "", "Filter by project key")

	return &Command{
		Flags: fs,
		Usage: "board [flags]",
		Short: "Show tasks as kanban columns",
		Long:  "Partition tasks into the four status columns.",
		Exec: func(io *IO, _ []string) error {
			return execBoard(io, app, fs)
		},
	}
}

func execBoard(io *IO, app *App, fs *flag.FlagSet) error {
	pred, err := buildBoardPredicate(app, fs)
	if err != nil {
		return err
	}

	cols := grouping.GroupByStatus(app.Store.List(pred))

	for _, status := range task.Statuses() {
		io.Printf("== %s (%d)\n", status, len(cols[status]))

		for _, t := range grouping.SortTasks(cols[status], grouping.SortPriorityDesc) {
			io.Printf("  %-10s %-7s %s\n", t.Key, t.Priority, t.Title)
		}
	}

	return nil
}

func buildBoardPredicate(app *App, fs *flag.FlagSet) (func(task.Task) bool, error) {
	raw := mustString(fs, "project")
	if raw == "" {
		return nil, nil
	}

	p, err := app.ResolveProject(raw)
	if err != nil {
		return nil, err
	}

	return func(t task.Task) bool {
		return t.ProjectID == p.ID
	}, nil
}
