package cli

import (
	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show effective configuration",
		Exec: func(io *IO, _ []string) error {
			io.Println("board_file:", app.Config.BoardFile)
			io.Println("board_path:", app.BoardPath)

			if app.Config.DefaultProject != "" {
				io.Println("default_project:", app.Config.DefaultProject)
			}

			if app.Sources.Global != "" {
				io.Println("global_config:", app.Sources.Global)
			}

			if app.Sources.Project != "" {
				io.Println("project_config:", app.Sources.Project)
			}

			return nil
		},
	}
}
