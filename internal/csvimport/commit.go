package csvimport

import (
	"context"
	"fmt"

	"github.com/calvinalkan/taskboard/internal/task"
)

// ImportResult summarizes a finished commit.
type ImportResult struct {
	SuccessCount int
	FailedCount  int
}

// Progress is called after each row attempt with how many rows have been
// processed so far out of the importable total.
type Progress func(done, total int)

// Commit converts every importable row into a store upsert under projectID
// and moves the pipeline importing -> result.
//
// Commit is partial-failure tolerant: a row that the store rejects (say, an
// unknown project) is counted failed and annotated, and processing moves
// straight to the next row. Rows run one per step so a host can interleave
// work between them; cancelling ctx between rows stops further processing
// while rows already committed stay committed. There is no undo and no
// backward transition once importing starts.
func (p *Pipeline) Commit(ctx context.Context, projectID string, progress Progress) (ImportResult, error) {
	if p.stage != StagePreview {
		return ImportResult{}, fmt.Errorf("%w: cannot commit from %s", task.ErrValidationFailed, p.stage)
	}

	p.stage = StageImporting

	var res ImportResult

	importable := 0

	for _, row := range p.rows {
		if row.Importable() {
			importable++
		} else {
			res.FailedCount++
		}
	}

	done := 0

	for _, row := range p.rows {
		if !row.Importable() {
			continue
		}

		if ctx.Err() != nil {
			p.stage = StageResult

			return res, fmt.Errorf("import cancelled: %w", ctx.Err())
		}

		t := row.Parsed
		t.ProjectID = projectID

		created, err := p.store.Upsert(t)
		if err != nil {
			row.addHard("", err, err.Error())

			res.FailedCount++
		} else {
			row.Parsed = created

			res.SuccessCount++
		}

		done++

		if progress != nil {
			progress(done, importable)
		}
	}

	p.stage = StageResult

	return res, nil
}
