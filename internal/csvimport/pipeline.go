// Package csvimport parses, validates, previews, and commits external CSV
// rows into the task store.
//
// The pipeline moves through explicit stages: upload -> preview -> importing
// -> result. Preview may be discarded back to upload; once importing starts
// there is no way back. Modeling the wizard as one stage enum on one object
// removes impossible state combinations (half-imported previews and the
// like).
package csvimport

import (
	"fmt"

	"github.com/calvinalkan/taskboard/internal/store"
	"github.com/calvinalkan/taskboard/internal/task"
)

// Stage is the pipeline position.
type Stage string

// Pipeline stages, in order.
const (
	StageUpload    Stage = "upload"
	StagePreview   Stage = "preview"
	StageImporting Stage = "importing"
	StageResult    Stage = "result"
)

// Directory resolves assignee emails against an external user directory.
// Resolution failure is a soft warning, not an import error.
type Directory interface {
	Resolve(email string) (userID string, ok bool)
}

// Pipeline drives one CSV import. Not safe for concurrent use; like the
// store it assumes a single logical writer.
type Pipeline struct {
	store     *store.Store
	directory Directory
	stage     Stage
	rows      []*Row
}

// New returns a pipeline in the upload stage. directory may be nil, in which
// case every assignee lookup is a soft miss.
func New(s *store.Store, directory Directory) *Pipeline {
	return &Pipeline{store: s, directory: directory, stage: StageUpload}
}

// Stage returns the current pipeline stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Rows returns the parsed rows for preview rendering. Rows with hard errors
// are included; they are simply excluded from commit.
func (p *Pipeline) Rows() []*Row {
	return p.rows
}

// Reset discards a preview and returns to the upload stage so another file
// can be picked. Only legal before importing starts.
func (p *Pipeline) Reset() error {
	if p.stage == StageImporting || p.stage == StageResult {
		return fmt.Errorf("%w: cannot reset from %s", task.ErrValidationFailed, p.stage)
	}

	p.stage = StageUpload
	p.rows = nil

	return nil
}
