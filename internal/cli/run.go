package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/taskboard/internal/config"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out, errOut io.Writer, args []string, env []string) int {
	ioCtx := NewIO(out, errOut)

	if len(args) < minArgs {
		printUsage(ioCtx, nil)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			ioCtx.ErrPrintln("error: cannot get working directory:", err)

			return 1
		}
	}

	overrides := config.Config{BoardFile: flags.boardFile}

	cfg, sources, err := config.Load(workDir, flags.configPath, overrides, env)
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	boardPath := cfg.BoardFile
	if !filepath.IsAbs(boardPath) {
		boardPath = filepath.Join(workDir, boardPath)
	}

	if len(flags.remaining) == 0 {
		printUsage(ioCtx, nil)

		return 0
	}

	name := flags.remaining[0]
	if name == "-h" || name == helpFlag {
		printUsage(ioCtx, nil)

		return 0
	}

	app, err := NewApp(cfg, sources, boardPath, in)
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	commands := Commands(app)

	cmd, ok := commands[name]
	if !ok {
		ioCtx.ErrPrintln("error: unknown command:", name)
		printUsage(ioCtx, commands)

		return 1
	}

	return cmd.Run(ioCtx, flags.remaining[1:])
}

// Commands returns the command registry keyed by name.
func Commands(app *App) map[string]*Command {
	cmds := []*Command{
		ProjectCmd(app),
		CreateCmd(app),
		ShowCmd(app),
		LsCmd(app),
		BoardCmd(app),
		StartCmd(app),
		ReviewCmd(app),
		DoneCmd(app),
		ReopenCmd(app),
		PriorityCmd(app),
		AssignCmd(app),
		BlockCmd(app),
		UnblockCmd(app),
		SubtaskCmd(app),
		RmCmd(app),
		BulkCmd(app),
		ImportCmd(app),
		PrintConfigCmd(app),
	}

	out := make(map[string]*Command, len(cmds))
	for _, c := range cmds {
		out[c.Name()] = c
	}

	return out
}

// commandOrder fixes the help listing order.
var commandOrder = []string{
	"create", "show", "ls", "board",
	"start", "review", "done", "reopen",
	"priority", "assign", "block", "unblock", "subtask",
	"rm", "bulk", "import", "project", "print-config",
}

func printUsage(o *IO, commands map[string]*Command) {
	o.Println("Usage: taskboard [global flags] <command> [args]")
	o.Println()
	o.Println("Global flags:")
	o.Println("  -C, --cwd <dir>      Run as if started in <dir>")
	o.Println("  -c, --config <file>  Use an explicit config file")
	o.Println("      --board <file>   Override the board file path")
	o.Println()
	o.Println("Commands:")

	if commands == nil {
		commands = Commands(&App{})
	}

	for _, name := range commandOrder {
		if cmd, ok := commands[name]; ok {
			o.Println(cmd.HelpLine())
		}
	}
}

type globalFlags struct {
	workDir    string
	configPath string
	boardFile  string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args
// consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("flag requires an argument: %s", arg)
		}

		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("flag requires an argument: %s", arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	if arg == "--board" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("flag requires an argument: %s", arg)
		}

		flags.boardFile = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--board="); ok {
		flags.boardFile = after

		return consumedOne, nil
	}

	if arg == "-h" || arg == helpFlag {
		// Treat as the command so dispatch prints usage
		return consumedNone, nil
	}

	return consumedNone, nil
}
