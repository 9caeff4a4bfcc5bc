package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/csvimport"
)

var errCsvFileRequired = errors.New("CSV file path is required")

// ImportCmd returns the import command.
func ImportCmd(app *App) *Command {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.StringP("project", "p", "", "Project key to import into")
	fs.Bool("commit", false, "Commit the rows instead of only previewing")
	fs.BoolP("yes", "y", false, "Skip the confirmation prompt")

	return &Command{
		Flags: fs,
		Usage: "import <file.csv> [flags]",
		Short: "Import tasks from a CSV file",
		Long: `Import tasks from a CSV file.

The first line is the header; columns are matched by name (Task Name or
Title required; Description, Due Date, Priority, Assignee, Estimated
Hours optional). Without --commit only the preview is shown. Rows with
hard errors appear in the preview but are never committed; a failing row
never aborts the rest of the batch.`,
		Exec: func(io *IO, args []string) error {
			return execImport(io, app, fs, args)
		},
	}
}

func execImport(io *IO, app *App, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errCsvFileRequired
	}

	project, err := app.ResolveProject(mustString(fs, "project"))
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0]) //nolint:gosec // path is user input by design
	if err != nil {
		return fmt.Errorf("reading CSV file: %w", err)
	}

	pipeline := csvimport.New(app.Store, configDirectory(app.Config.Assignees))

	rows, err := pipeline.Parse(string(raw))
	if err != nil {
		return err
	}

	rows, err = pipeline.Validate()
	if err != nil {
		return err
	}

	importable := printPreview(io, rows)

	commit, _ := fs.GetBool("commit")
	if !commit {
		io.Printf("preview only; run with --commit to import %d row(s)\n", importable)

		return pipeline.Reset()
	}

	yes, _ := fs.GetBool("yes")
	if !yes {
		ok, promptErr := confirmImport(io, app, importable, project.Key)
		if promptErr != nil {
			return promptErr
		}

		if !ok {
			io.Println("aborted")

			return pipeline.Reset()
		}
	}

	res, err := pipeline.Commit(context.Background(), project.ID, func(done, total int) {
		io.Printf("importing %d/%d\r", done, total)
	})
	if err != nil {
		return err
	}

	saveErr := app.Save()
	if saveErr != nil {
		return saveErr
	}

	io.Printf("\nimported %d, failed %d\n", res.SuccessCount, res.FailedCount)

	return nil
}

// printPreview renders the preview table and returns the importable count.
func printPreview(io *IO, rows []*csvimport.Row) int {
	importable := 0

	for _, row := range rows {
		marker := "ok"

		if !row.Importable() {
			marker = "SKIP"
		} else {
			importable++
		}

		io.Printf("%4d  %-4s %-30s %-7s %s\n",
			row.Index, marker, row.Parsed.Title, row.Parsed.Priority, formatDue(row))

		for _, issue := range row.Issues {
			if issue.Severity == csvimport.SeverityHard {
				io.Printf("        error: %s\n", issue.Message)
			} else {
				io.Warn(fmt.Sprintf("row %d: %s", row.Index, issue.Message))
			}
		}
	}

	return importable
}

func formatDue(row *csvimport.Row) string {
	if row.Parsed.DueAt.IsZero() {
		return "-"
	}

	return row.Parsed.DueAt.Format(dueDateLayout)
}

// confirmImport asks before committing. Interactive sessions get a liner
// prompt; piped stdin is read line-wise so scripts can answer.
func confirmImport(io *IO, app *App, count int, projectKey string) (bool, error) {
	prompt := fmt.Sprintf("Import %d row(s) into %s? [y/N] ", count, projectKey)

	if app.Stdin == nil {
		line := liner.NewLiner()
		defer func() { _ = line.Close() }()

		answer, err := line.Prompt(prompt)
		if err != nil {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}

		return isYes(answer), nil
	}

	fmt.Fprint(io.errOut, prompt)

	scanner := bufio.NewScanner(app.Stdin)
	if !scanner.Scan() {
		return false, nil
	}

	return isYes(scanner.Text()), nil
}

// configDirectory resolves assignee emails against the config's assignees
// map. A nil or empty map means every lookup is a soft miss.
type configDirectory map[string]string

func (d configDirectory) Resolve(email string) (string, bool) {
	id, ok := d[strings.ToLower(strings.TrimSpace(email))]

	return id, ok && id != ""
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}
