package csvimport

import (
	"fmt"
	"strconv"
	"time"

	"github.com/calvinalkan/taskboard/internal/task"
)

// dueDateLayout is the only accepted due date format.
const dueDateLayout = "2006-01-02"

// Validate annotates the parsed rows in place and returns them.
//
// Per-row rules: Title is required (hard error). A priority label that
// doesn't match low/medium/high/urgent case-insensitively is defaulted to
// medium with a warning, not rejected. A due date that isn't YYYY-MM-DD is a
// hard InvalidDate error: the row stays visible in preview but is excluded
// from commit. An assignee email that the directory can't resolve is a soft
// warning; the task imports unassigned. No rule aborts the batch.
func (p *Pipeline) Validate() ([]*Row, error) {
	if p.stage != StagePreview {
		return nil, fmt.Errorf("%w: cannot validate from %s", task.ErrValidationFailed, p.stage)
	}

	for _, row := range p.rows {
		p.validateRow(row)
	}

	return p.rows, nil
}

func (p *Pipeline) validateRow(row *Row) {
	row.Parsed = task.Task{
		Title:       row.Raw[colTitle],
		Description: row.Raw[colDescription],
		Status:      task.StatusNotStarted,
		Priority:    task.DefaultPriority,
	}

	if row.Parsed.Title == "" {
		row.addHard(colTitle, task.ErrValidationFailed, "title is required")
	}

	if label := row.Raw[colPriority]; label != "" {
		prio, err := task.ParsePriority(label)
		if err != nil {
			row.addSoft(colPriority, task.ErrInvalidPriority,
				fmt.Sprintf("unknown priority %q, defaulting to medium", label))
		} else {
			row.Parsed.Priority = prio
		}
	}

	if raw := row.Raw[colDueDate]; raw != "" {
		due, err := time.ParseInLocation(dueDateLayout, raw, time.UTC)
		if err != nil {
			row.addHard(colDueDate, task.ErrInvalidDate,
				fmt.Sprintf("due date %q is not YYYY-MM-DD", raw))
		} else {
			row.Parsed.DueAt = due
		}
	}

	if raw := row.Raw[colEstimate]; raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours < 0 {
			row.addSoft(colEstimate, task.ErrValidationFailed,
				fmt.Sprintf("estimate %q is not a number, ignoring", raw))
		} else {
			row.Parsed.EstimatedHours = hours
		}
	}

	if email := row.Raw[colAssignee]; email != "" {
		userID, ok := p.resolve(email)
		if !ok {
			row.addSoft(colAssignee, task.ErrValidationFailed,
				fmt.Sprintf("unknown assignee %q, importing unassigned", email))
		} else {
			row.Parsed.AssigneeIDs = []string{userID}
		}
	}
}

func (p *Pipeline) resolve(email string) (string, bool) {
	if p.directory == nil {
		return "", false
	}

	return p.directory.Resolve(email)
}
