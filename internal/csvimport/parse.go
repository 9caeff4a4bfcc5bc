package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/calvinalkan/taskboard/internal/task"
)

// Canonical column names after header mapping.
const (
	colTitle       = "title"
	colDescription = "description"
	colDueDate     = "due date"
	colPriority    = "priority"
	colAssignee    = "assignee"
	colEstimate    = "estimated hours"
)

// headerAliases maps accepted header spellings to canonical column names.
// Mapping is by name, not position, so reordered columns are fine.
var headerAliases = map[string]string{
	"task name":       colTitle,
	"title":           colTitle,
	"name":            colTitle,
	"description":     colDescription,
	"due date":        colDueDate,
	"due":             colDueDate,
	"priority":        colPriority,
	"assignee":        colAssignee,
	"estimated hours": colEstimate,
	"estimate":        colEstimate,
}

// Parse reads raw CSV text into rows and moves the pipeline to preview.
//
// The first line is the header; columns are matched by name. A file that is
// not CSV-shaped - unparseable, empty, header-only, or missing a title
// column - fails the whole pipeline with MalformedFile before preview is
// ever reached. Ragged data rows are tolerated: missing cells read as empty.
func (p *Pipeline) Parse(raw string) ([]*Row, error) {
	if p.stage != StageUpload {
		return nil, fmt.Errorf("%w: cannot parse from %s", task.ErrValidationFailed, p.stage)
	}

	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", task.ErrMalformedFile)
		}

		return nil, fmt.Errorf("%w: %v", task.ErrMalformedFile, err)
	}

	columns := make([]string, len(header))
	hasTitle := false

	for i, h := range header {
		canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			// Unknown columns are carried through untouched so the
			// preview can still show them.
			canonical = strings.ToLower(strings.TrimSpace(h))
		}

		columns[i] = canonical

		if canonical == colTitle {
			hasTitle = true
		}
	}

	if !hasTitle {
		return nil, fmt.Errorf("%w: no Title or Task Name column", task.ErrMalformedFile)
	}

	var rows []*Row

	for index := 1; ; index++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("%w: row %d: %v", task.ErrMalformedFile, index, readErr)
		}

		raw := make(map[string]string, len(columns))

		for i, col := range columns {
			if i < len(record) {
				raw[col] = strings.TrimSpace(record[i])
			} else {
				raw[col] = ""
			}
		}

		rows = append(rows, &Row{Index: index, Raw: raw})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", task.ErrMalformedFile)
	}

	p.rows = rows
	p.stage = StagePreview

	return rows, nil
}
