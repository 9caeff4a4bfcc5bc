package csvimport

import "github.com/calvinalkan/taskboard/internal/task"

// Severity distinguishes row issues that disqualify a row from commit from
// ones that only adjust a field.
type Severity string

// Issue severities. A hard issue excludes the row from commit; a soft one
// imports the row with a defaulted or omitted field.
const (
	SeverityHard Severity = "error"
	SeveritySoft Severity = "warning"
)

// Issue annotates one problem found on a row during validation.
type Issue struct {
	Field    string
	Severity Severity
	Err      error
	Message  string
}

// Row is one CSV data row moving through the pipeline. Created during parse,
// annotated during validate, consumed during commit; never persisted itself.
type Row struct {
	// Index is the 1-based data row number (the header is row 0).
	Index int

	// Raw maps canonical column names to the cell values as read.
	Raw map[string]string

	// Parsed holds the fields recovered so far. Only meaningful once
	// validation has run and only trusted when Importable.
	Parsed task.Task

	Issues []Issue
}

// Importable reports whether the row survived validation with no hard
// errors.
func (r *Row) Importable() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityHard {
			return false
		}
	}

	return true
}

// Warnings returns the row's soft issues.
func (r *Row) Warnings() []Issue {
	var out []Issue

	for _, is := range r.Issues {
		if is.Severity == SeveritySoft {
			out = append(out, is)
		}
	}

	return out
}

func (r *Row) addHard(field string, err error, msg string) {
	r.Issues = append(r.Issues, Issue{Field: field, Severity: SeverityHard, Err: err, Message: msg})
}

func (r *Row) addSoft(field string, err error, msg string) {
	r.Issues = append(r.Issues, Issue{Field: field, Severity: SeveritySoft, Err: err, Message: msg})
}
