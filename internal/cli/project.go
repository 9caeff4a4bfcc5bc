package cli

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/task"
)

var (
	errProjectSubcommand = errors.New("expected subcommand: add | ls")
	errProjectName       = errors.New("project name is required")
	errProjectKey        = errors.New("project key is required (uppercase letters, e.g. WEB)")
	errProjectKeyTaken   = errors.New("project key already in use")
)

// ProjectCmd returns the project command.
func ProjectCmd(app *App) *Command {
	fs := flag.NewFlagSet("project", flag.ContinueOnError)
	fs.String("key", "", "Short uppercase key used in task keys (e.g. WEB)")
	fs.String("color", "", "Color token for board rendering")

	return &Command{
		Flags: fs,
		Usage: "project <add|ls> [args]",
		Short: "Manage project reference data",
		Long: `Manage project reference data.

  project add <name> --key WEB   Register a project
  project ls                     List projects`,
		Exec: func(io *IO, args []string) error {
			if len(args) == 0 {
				return errProjectSubcommand
			}

			switch args[0] {
			case "add":
				return execProjectAdd(io, app, fs, args[1:])
			case "ls":
				return execProjectLs(io, app)
			default:
				return fmt.Errorf("%w, got %q", errProjectSubcommand, args[0])
			}
		},
	}
}

func execProjectAdd(io *IO, app *App, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errProjectName
	}

	name := strings.Join(args, " ")

	key, _ := fs.GetString("key")
	key = strings.ToUpper(strings.TrimSpace(key))

	if key == "" {
		return errProjectKey
	}

	for _, p := range app.Store.Projects() {
		if strings.EqualFold(p.Key, key) {
			return fmt.Errorf("%w: %s", errProjectKeyTaken, key)
		}
	}

	color, _ := fs.GetString("color")

	app.Store.AddProject(task.ProjectRef{
		ID:         strings.ToLower(key),
		Name:       name,
		Key:        key,
		ColorToken: color,
	})

	err := app.Save()
	if err != nil {
		return err
	}

	io.Println("Added project", key)

	return nil
}

func execProjectLs(io *IO, app *App) error {
	projects := app.Store.Projects()
	if len(projects) == 0 {
		io.ErrPrintln("no projects")

		return nil
	}

	for _, p := range projects {
		io.Printf("%-8s %s\n", p.Key, p.Name)
	}

	return nil
}
