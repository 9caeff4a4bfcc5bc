package csvimport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/taskboard/internal/csvimport"
	"github.com/calvinalkan/taskboard/internal/store"
	"github.com/calvinalkan/taskboard/internal/task"
)

// fakeDirectory resolves a fixed email to user id mapping.
type fakeDirectory map[string]string

func (d fakeDirectory) Resolve(email string) (string, bool) {
	id, ok := d[email]

	return id, ok
}

func newStore(t *testing.T) *store.Store {
	t.Helper()

	current := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	s := store.NewWithClock(func() time.Time {
		current = current.Add(time.Second)

		return current
	})
	s.AddProject(task.ProjectRef{ID: "web", Name: "Website", Key: "WEB"})

	return s
}

func TestParseMalformedFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty file", raw: ""},
		{name: "header only", raw: "Title,Priority\n"},
		{name: "no title column", raw: "Priority,Due Date\nhigh,2024-06-01\n"},
		{name: "broken quoting in header", raw: "\"Title,Priority\nTask A,high\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := csvimport.New(newStore(t), nil)

			_, err := p.Parse(tt.raw)
			require.ErrorIs(t, err, task.ErrMalformedFile)
			assert.Equal(t, csvimport.StageUpload, p.Stage(), "failed parse must not advance the stage")
		})
	}
}

func TestParseMapsHeadersByName(t *testing.T) {
	t.Parallel()

	// Columns reordered and using the alias spellings.
	raw := "Priority,Task Name,Due,Estimate\nhigh,Build login,2024-06-01,4.5\n"

	p := csvimport.New(newStore(t), nil)

	rows, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Build login", rows[0].Raw["title"])
	assert.Equal(t, "high", rows[0].Raw["priority"])
	assert.Equal(t, "2024-06-01", rows[0].Raw["due date"])
	assert.Equal(t, "4.5", rows[0].Raw["estimated hours"])
	assert.Equal(t, csvimport.StagePreview, p.Stage())
}

func TestParseToleratesRaggedRows(t *testing.T) {
	t.Parallel()

	raw := "Title,Priority,Due Date\nTask A\nTask B,high\n"

	p := csvimport.New(newStore(t), nil)

	rows, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Empty(t, rows[0].Raw["priority"], "missing cells read as empty")
	assert.Equal(t, "high", rows[1].Raw["priority"])
}

func TestValidateRules(t *testing.T) {
	t.Parallel()

	raw := "Title,Priority,Due Date,Assignee,Estimated Hours\n" +
		"Good,urgent,2024-06-01,alice@example.com,3\n" +
		",high,,,\n" +
		"Odd Priority,blocker,,,\n" +
		"Bad Date,low,June 1st,,\n" +
		"Ghost Assignee,,,nobody@example.com,\n" +
		"Bad Estimate,,,,soon\n"

	p := csvimport.New(newStore(t), fakeDirectory{"alice@example.com": "u-alice"})

	_, err := p.Parse(raw)
	require.NoError(t, err)

	rows, err := p.Validate()
	require.NoError(t, err)
	require.Len(t, rows, 6)

	good := rows[0]
	assert.True(t, good.Importable())
	assert.Empty(t, good.Issues)
	assert.Equal(t, task.PriorityUrgent, good.Parsed.Priority)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), good.Parsed.DueAt)
	assert.Equal(t, []string{"u-alice"}, good.Parsed.AssigneeIDs)
	assert.InDelta(t, 3.0, good.Parsed.EstimatedHours, 0)

	missingTitle := rows[1]
	assert.False(t, missingTitle.Importable(), "empty title is a hard error")

	oddPriority := rows[2]
	assert.True(t, oddPriority.Importable(), "unknown priority is only a warning")
	assert.Equal(t, task.PriorityMedium, oddPriority.Parsed.Priority)
	require.Len(t, oddPriority.Warnings(), 1)
	assert.ErrorIs(t, oddPriority.Warnings()[0].Err, task.ErrInvalidPriority)

	badDate := rows[3]
	assert.False(t, badDate.Importable(), "unparseable due date is a hard error")
	require.Len(t, badDate.Issues, 1)
	assert.ErrorIs(t, badDate.Issues[0].Err, task.ErrInvalidDate)

	ghost := rows[4]
	assert.True(t, ghost.Importable())
	assert.Empty(t, ghost.Parsed.AssigneeIDs, "unresolvable assignee imports unassigned")
	assert.Len(t, ghost.Warnings(), 1)

	badEstimate := rows[5]
	assert.True(t, badEstimate.Importable())
	assert.InDelta(t, 0.0, badEstimate.Parsed.EstimatedHours, 0)
	assert.Len(t, badEstimate.Warnings(), 1)
}

func TestCommitSkipsHardErrorRows(t *testing.T) {
	t.Parallel()

	raw := "Title,Due Date\n" +
		"Task A,2024-06-01\n" +
		"Task B,not-a-date\n" +
		"Task C,2024-06-03\n"

	s := newStore(t)
	p := csvimport.New(s, nil)

	_, err := p.Parse(raw)
	require.NoError(t, err)

	_, err = p.Validate()
	require.NoError(t, err)

	res, err := p.Commit(context.Background(), "web", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailedCount)
	assert.Equal(t, csvimport.StageResult, p.Stage())
	assert.Equal(t, 2, s.Len())

	// Committed rows carry the assigned id and key back for the summary.
	assert.Equal(t, "WEB-1", p.Rows()[0].Parsed.Key)
	assert.Equal(t, "WEB-2", p.Rows()[2].Parsed.Key)
}

func TestCommitCountsStoreRejections(t *testing.T) {
	t.Parallel()

	raw := "Title\nTask A\nTask B\n"

	s := newStore(t)
	p := csvimport.New(s, nil)

	_, err := p.Parse(raw)
	require.NoError(t, err)

	_, err = p.Validate()
	require.NoError(t, err)

	// Unknown project: every row fails at the store, none abort the batch.
	res, err := p.Commit(context.Background(), "nope", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 2, res.FailedCount)
	assert.Equal(t, 0, s.Len())

	for _, row := range p.Rows() {
		assert.False(t, row.Importable(), "rejected rows are annotated with a hard issue")
	}
}

func TestCommitReportsProgress(t *testing.T) {
	t.Parallel()

	raw := "Title\nTask A\nTask B\nTask C\n"

	p := csvimport.New(newStore(t), nil)

	_, err := p.Parse(raw)
	require.NoError(t, err)

	_, err = p.Validate()
	require.NoError(t, err)

	var calls [][2]int

	_, err = p.Commit(context.Background(), "web", func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestCommitCancellationKeepsCommittedRows(t *testing.T) {
	t.Parallel()

	raw := "Title\nTask A\nTask B\nTask C\n"

	s := newStore(t)
	p := csvimport.New(s, nil)

	_, err := p.Parse(raw)
	require.NoError(t, err)

	_, err = p.Validate()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	res, err := p.Commit(ctx, "web", func(done, total int) {
		if done == 1 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, res.SuccessCount, "rows committed before the cancel stay committed")
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, csvimport.StageResult, p.Stage(), "a cancelled import still ends in result")
}

func TestStageTransitionsAreEnforced(t *testing.T) {
	t.Parallel()

	p := csvimport.New(newStore(t), nil)

	_, err := p.Validate()
	require.ErrorIs(t, err, task.ErrValidationFailed, "validate before parse")

	_, err = p.Commit(context.Background(), "web", nil)
	require.ErrorIs(t, err, task.ErrValidationFailed, "commit before parse")

	_, err = p.Parse("Title\nTask A\n")
	require.NoError(t, err)

	_, err = p.Parse("Title\nTask B\n")
	require.ErrorIs(t, err, task.ErrValidationFailed, "double parse")

	_, err = p.Validate()
	require.NoError(t, err)

	_, err = p.Commit(context.Background(), "web", nil)
	require.NoError(t, err)

	_, err = p.Commit(context.Background(), "web", nil)
	require.ErrorIs(t, err, task.ErrValidationFailed, "double commit")

	require.ErrorIs(t, p.Reset(), task.ErrValidationFailed, "reset after result")
}

func TestResetDiscardsPreview(t *testing.T) {
	t.Parallel()

	p := csvimport.New(newStore(t), nil)

	_, err := p.Parse("Title\nTask A\n")
	require.NoError(t, err)

	require.NoError(t, p.Reset())
	assert.Equal(t, csvimport.StageUpload, p.Stage())
	assert.Empty(t, p.Rows())

	// A fresh file can go through after the reset.
	rows, err := p.Parse("Title\nTask B\n")
	require.NoError(t, err)
	assert.Equal(t, "Task B", rows[0].Raw["title"])
}
