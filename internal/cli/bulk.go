package cli

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskboard/internal/engine"
	"github.com/calvinalkan/taskboard/internal/task"
)

var (
	errBulkOpRequired   = errors.New("--op is required (set_status|set_priority|set_assignee|delete)")
	errBulkNoTargets    = errors.New("at least one target id is required")
	errBulkNeedStatus   = errors.New("--status is required for set_status")
	errBulkNeedPriority = errors.New("--priority is required for set_priority")
)

// BulkCmd returns the bulk command.
func BulkCmd(app *App) *Command {
	fs := flag.NewFlagSet("bulk", flag.ContinueOnError)
	fs.String("op", "", "Operation (set_status|set_priority|set_assignee|delete)")
	fs.String("status", "", "Status payload for set_status")
	fs.String("priority", "", "Priority payload for set_priority")
	fs.StringSlice("assignee", nil, "Assignee payload for set_assignee (repeatable)")

	return &Command{
		Flags: fs,
		Usage: "bulk --op <op> <id...>",
		Short: "Apply one edit across many tasks",
		Long: `Apply one operation to every listed task independently. A failing
target never blocks the others: the result lists each target exactly
once as changed or failed. Bulk delete never forces; tasks that still
block others are reported as failed.`,
		Exec: func(io *IO, args []string) error {
			return execBulk(io, app, fs, args)
		},
	}
}

//nolint:cyclop // flag validation per op is flat but branchy
func execBulk(io *IO, app *App, fs *flag.FlagSet, args []string) error {
	opName := mustString(fs, "op")
	if opName == "" {
		return errBulkOpRequired
	}

	if len(args) == 0 {
		return errBulkNoTargets
	}

	op := engine.BulkOperation{Op: engine.BulkOp(opName)}

	switch op.Op {
	case engine.BulkSetStatus:
		raw := mustString(fs, "status")
		if raw == "" {
			return errBulkNeedStatus
		}

		status, err := task.ParseStatus(raw)
		if err != nil {
			return err
		}

		op.Payload.Status = status

	case engine.BulkSetPriority:
		raw := mustString(fs, "priority")
		if raw == "" {
			return errBulkNeedPriority
		}

		priority, err := task.ParsePriority(raw)
		if err != nil {
			return err
		}

		op.Payload.Priority = priority

	case engine.BulkSetAssignee:
		op.Payload.AssigneeIDs, _ = fs.GetStringSlice("assignee")

	case engine.BulkDelete:

	default:
		return fmt.Errorf("%w: unknown bulk op %q", task.ErrValidationFailed, opName)
	}

	// Resolve key references up front so the result speaks in keys.
	keys := make(map[string]string, len(args))

	for _, ref := range args {
		t, err := app.ResolveTask(ref)
		if err != nil {
			// Let the coordinator report the unknown id as a failure.
			op.TargetIDs = append(op.TargetIDs, ref)
			keys[ref] = ref

			continue
		}

		op.TargetIDs = append(op.TargetIDs, t.ID)
		keys[t.ID] = t.Key
	}

	res := app.Engine.Apply(op)

	err := app.Save()
	if err != nil {
		return err
	}

	for _, id := range res.Succeeded {
		io.Println("ok:", keys[id])
	}

	for _, f := range res.Failed {
		io.Warn(fmt.Sprintf("%s: %v", keys[f.TaskID], f.Err))
	}

	io.Printf("%d changed, %d failed\n", len(res.Succeeded), len(res.Failed))

	return nil
}
